package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hr-portal/recruitment-service/internal/auth"
	"github.com/hr-portal/recruitment-service/internal/config"
	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/mail"
	"github.com/hr-portal/recruitment-service/internal/repository"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

// TokenRevoker persists logged out token ids.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
}

// AuthService coordinates login, logout and password flows.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	tokenMgr   *auth.TokenManager
	revoker    TokenRevoker
	emails     *EmailService
	bcryptCost int
	resetTTL   time.Duration
	appBaseURL string
	logger     *zap.Logger
	now        func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	Revoker           TokenRevoker
	Emails            *EmailService
	Logger            *zap.Logger
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	User  *domain.User
	Token *auth.IssuedToken
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		revoker:    deps.Revoker,
		emails:     deps.Emails,
		bcryptCost: cfg.Auth.BcryptCost,
		resetTTL:   time.Duration(cfg.Auth.PasswordResetTTLMinutes) * time.Minute,
		appBaseURL: strings.TrimRight(cfg.Mail.AppBaseURL, "/"),
		logger:     logger,
		now:        time.Now,
	}
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, apperrors.NewUnauthorized("Email hoặc mật khẩu không đúng")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("Email hoặc mật khẩu không đúng")
	}
	if !user.Active {
		return nil, apperrors.NewForbidden("Tài khoản đã bị vô hiệu hóa")
	}
	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{User: user, Token: token}, nil
}

// Logout revokes the presented token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || s.revoker == nil {
		return nil
	}
	if err := s.revoker.Revoke(ctx, claims.ID, s.tokenMgr.Remaining(claims)); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// ChangePassword verifies current password before updating to new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperrors.NotFoundOr(err, "người dùng", nil)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewValidationError("Mật khẩu hiện tại không đúng", map[string]any{"field": "current_password"})
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	return apperrors.MapError(s.users.Update(ctx, user))
}

// RequestPasswordReset stores a reset token and emails the link. Unknown or inactive
// accounts are ignored so callers cannot probe which emails exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil
		}
		return apperrors.MapError(err)
	}
	if !user.Active {
		return nil
	}

	token := &domain.PasswordResetToken{
		UserID:    user.ID,
		Token:     auth.NewResetToken(),
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return apperrors.MapError(err)
	}

	if s.emails == nil {
		return nil
	}
	link := s.appBaseURL + "/reset-password?token=" + url.QueryEscape(token.Token)
	if _, err := s.emails.Deliver(ctx, Outgoing{
		To:       user.Email,
		Template: domain.EmailTemplateReset,
		Data:     mail.TemplateData{RecipientName: user.Name, ResetLink: link, ExpiresIn: s.resetTTL},
	}); err != nil {
		s.logger.Warn("password reset email not delivered", zap.String("user_id", user.ID), zap.Error(err))
	}
	return nil
}

// ConfirmPasswordReset validates the reset token and updates password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return apperrors.NewValidationError("Liên kết đặt lại mật khẩu không hợp lệ", nil)
		}
		return apperrors.MapError(err)
	}
	if !token.Usable(s.now()) {
		return apperrors.NewValidationError("Liên kết đặt lại mật khẩu đã hết hạn hoặc đã được sử dụng", nil)
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return apperrors.NotFoundOr(err, "người dùng", nil)
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.resets.MarkUsed(ctx, token.ID); err != nil {
		if apperrors.IsNoRows(err) {
			return apperrors.NewValidationError("Liên kết đặt lại mật khẩu đã được sử dụng", nil)
		}
		return apperrors.MapError(err)
	}
	user.PasswordHash = hash
	return apperrors.MapError(s.users.Update(ctx, user))
}

// BootstrapAdmin creates the initial administrator when no account uses email yet.
func (s *AuthService) BootstrapAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return false, nil
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !apperrors.IsNoRows(err) {
		return false, err
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, err
	}
	admin := &domain.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		return false, err
	}
	s.logger.Info("bootstrap admin created", zap.String("email", email))
	return true, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

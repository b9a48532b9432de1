package service

import (
	"context"
	"strings"

	"github.com/hr-portal/recruitment-service/internal/auth"
	"github.com/hr-portal/recruitment-service/internal/config"
	"github.com/hr-portal/recruitment-service/internal/domain"
	"github.com/hr-portal/recruitment-service/internal/repository"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

// UserService manages internal accounts.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// UserCreateInput describes a new account.
type UserCreateInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	Department string
	Phone      string
}

// UserUpdateInput carries optional account changes.
type UserUpdateInput struct {
	Name       *string
	Role       *domain.Role
	Department *string
	Phone      *string
	Active     *bool
}

// NewUserService constructs the service.
func NewUserService(cfg config.Config, users repository.UserRepository) *UserService {
	return &UserService{users: users, bcryptCost: cfg.Auth.BcryptCost}
}

func requireAdmin(actor *domain.User) error {
	if !isAdmin(actor) {
		return apperrors.NewForbidden("Chỉ quản trị viên được thực hiện thao tác này")
	}
	return nil
}

// Create adds a new account.
func (s *UserService) Create(ctx context.Context, actor *domain.User, input UserCreateInput) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !input.Role.IsValid() {
		return nil, apperrors.NewValidationError("Vai trò không hợp lệ", map[string]any{"role": input.Role})
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("Email đã được sử dụng", map[string]any{"email": email})
	} else if err != nil && !apperrors.IsNoRows(err) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
		Department:   strings.TrimSpace(input.Department),
		Phone:        strings.TrimSpace(input.Phone),
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// List returns accounts matching filter.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Get fetches an account.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "người dùng", map[string]any{"user_id": id})
	}
	return user, nil
}

// Update changes profile, role or activation of an account.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id string, input UserUpdateInput) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NotFoundOr(err, "người dùng", map[string]any{"user_id": id})
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, apperrors.NewValidationError("Vai trò không hợp lệ", map[string]any{"role": *input.Role})
		}
		if user.ID == actor.ID && *input.Role != domain.RoleAdmin {
			return nil, apperrors.NewConflict("Không thể tự hạ quyền quản trị của chính mình", nil)
		}
		user.Role = *input.Role
	}
	if input.Active != nil {
		if user.ID == actor.ID && !*input.Active {
			return nil, apperrors.NewConflict("Không thể tự vô hiệu hóa tài khoản của chính mình", nil)
		}
		user.Active = *input.Active
	}
	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Department != nil {
		user.Department = strings.TrimSpace(*input.Department)
	}
	if input.Phone != nil {
		user.Phone = strings.TrimSpace(*input.Phone)
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

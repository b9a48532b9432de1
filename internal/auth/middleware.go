package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hr-portal/recruitment-service/internal/domain"
	apperrors "github.com/hr-portal/recruitment-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User   *domain.User
	Claims *Claims
}

// UserID returns the caller id or an empty string.
func (p *Principal) UserID() string {
	if p == nil || p.User == nil {
		return ""
	}
	return p.User.ID
}

// HasRole reports whether the caller holds one of roles.
func (p *Principal) HasRole(roles ...domain.Role) bool {
	return p != nil && p.User.HasRole(roles...)
}

// UserLookup loads users referenced by token claims.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

// Revoker tracks logged out tokens.
type Revoker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens  *TokenManager
	users   UserLookup
	revoker Revoker
}

// NewAuthMiddleware constructs middleware. revoker may be nil.
func NewAuthMiddleware(tokens *TokenManager, users UserLookup, revoker Revoker) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, revoker: revoker}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("Thiếu thông tin xác thực")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("Header Authorization không hợp lệ")
	}

	claims, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("Token không hợp lệ hoặc đã hết hạn")
	}

	ctx := c.UserContext()
	if m.revoker != nil && claims.ID != "" {
		revoked, err := m.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return apperrors.MapError(err)
		}
		if revoked {
			return apperrors.NewUnauthorized("Phiên đăng nhập đã kết thúc")
		}
	}

	user, err := m.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return apperrors.NewUnauthorized("Tài khoản không tồn tại")
		}
		return apperrors.MapError(err)
	}
	if !user.Active {
		return apperrors.NewForbidden("Tài khoản đã bị vô hiệu hóa")
	}

	c.Locals(principalKey, &Principal{User: user, Claims: claims})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok && principal.User != nil
}

// WithPrincipal stores principal on the request; used by tests and internal callers.
func WithPrincipal(c *fiber.Ctx, principal *Principal) {
	c.Locals(principalKey, principal)
}

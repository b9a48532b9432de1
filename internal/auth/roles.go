package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// RequireRole ensures the caller has one of the allowed roles. ADMIN always passes.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed)+1)
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}
	allowedSet[domain.RoleAdmin] = struct{}{}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
		}
		if len(allowed) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.User.Role]; !exists {
			return fiber.NewError(http.StatusForbidden, "Bạn không có quyền thực hiện thao tác này")
		}
		return c.Next()
	}
}

// RequireAuthenticated ensures a principal is attached.
func RequireAuthenticated() fiber.Handler {
	return RequireRole()
}

package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Ash-the-k/uhi-hackathon/internal/domain"
	apperrors "github.com/Ash-the-k/uhi-hackathon/pkg/util"
)

// RequireRole gates a route on the caller's resolved role. The comparison is
// case-insensitive. A forbidden response discloses the actual role and the
// allowed set; that is operator-facing diagnostics, not a secret.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	allowedList := make([]string, 0, len(allowed))
	for _, role := range allowed {
		normalized := domain.NormalizeRole(string(role))
		allowedSet[normalized] = struct{}{}
		allowedList = append(allowedList, string(normalized))
	}

	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return apperrors.NewMissingToken("no authenticated identity")
		}

		role := domain.NormalizeRole(identity.Role)
		if role == "" {
			return apperrors.NewForbidden(apperrors.CodeNoRole, "no role resolved for identity", nil)
		}

		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[role]; !exists {
			return apperrors.NewForbidden(apperrors.CodeRoleNotAllowed, "role not allowed", map[string]any{
				"role":    string(role),
				"allowed": allowedList,
			})
		}
		return c.Next()
	}
}

// RequireAuthenticated only checks that a verified identity is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return apperrors.NewMissingToken("no authenticated identity")
		}
		return c.Next()
	}
}

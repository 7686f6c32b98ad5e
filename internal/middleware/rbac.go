package middleware

import (
	"context"
	"slices"

	"github.com/syffus01/BioGED/internal/common/models"
	"github.com/syffus01/BioGED/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// Action names consulted against the policy table. Keeping the mapping in
// one place avoids per-endpoint role-string drift.
const (
	ActionAuditRead   = "audit.read"
	ActionAuditExport = "audit.export"
)

// UserFinder resolves token claims back to a credential store record.
type UserFinder interface {
	FindByUserID(ctx context.Context, userID string) (*models.User, error)
}

// policy maps an action to the set of roles allowed to perform it. Actions
// absent from the table are open to any authenticated user.
var policy = map[string][]models.Role{
	ActionAuditRead:   {models.RoleAdmin, models.RoleQualityManager},
	ActionAuditExport: {models.RoleAdmin, models.RoleQualityManager},
}

// Allowed reports whether role may perform action.
func Allowed(action string, role models.Role) bool {
	allowed, ok := policy[action]
	if !ok {
		return true
	}
	return slices.Contains(allowed, role)
}

// RequireAction enforces the policy table for a route. The role is judged
// from the credential store record, not the token claims: a token whose user
// id no longer resolves fails Unauthorized even within its TTL, and a demoted
// account loses access immediately. Must run after AuthMiddleware.
func RequireAction(action string, users UserFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := c.Locals(utils.UserClaimsKey).(*utils.UserClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		usr, err := users.FindByUserID(c.UserContext(), claims.UserID)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if !Allowed(action, usr.Role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden: insufficient role",
			})
		}

		return c.Next()
	}
}

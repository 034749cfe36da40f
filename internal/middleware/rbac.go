package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/policy"
	"github.com/edumate/sims-api/internal/utils"
)

// RequirePermission guards a route behind the capability table: the
// authenticated user's role must be granted the action.
func RequirePermission(action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := CurrentRole(c)
		if !policy.Allows(role, action) {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// RequireRole guards a route behind an explicit role set. Used for the
// few read surfaces scoped to one role, e.g. the student results view.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if _, ok := allowed[CurrentRole(c)]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}

// CurrentUserID returns the authenticated user's id, or zero when absent.
func CurrentUserID(c *fiber.Ctx) uint {
	if value := c.Locals("user_id"); value != nil {
		if id, ok := value.(uint); ok {
			return id
		}
	}
	return 0
}

// CurrentRole returns the authenticated user's role, or the empty role.
func CurrentRole(c *fiber.Ctx) models.Role {
	return models.Role(normalizeRoleValue(c.Locals("user_role")))
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToUpper(strings.TrimSpace(v))
	case fmt.Stringer:
		return strings.ToUpper(strings.TrimSpace(v.String()))
	default:
		if value == nil {
			return ""
		}
		return strings.ToUpper(strings.TrimSpace(fmt.Sprintf("%v", value)))
	}
}

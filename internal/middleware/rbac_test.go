package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/policy"
)

func newRBACTestApp(role string, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != "" {
			c.Locals("user_id", uint(1))
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Get("/guarded", guard, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequirePermissionAllowsGrantedRole(t *testing.T) {
	app := newRBACTestApp("SCHOOL_ADMIN", RequirePermission(policy.ActionLeaveDecide))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermissionRejectsOtherRoles(t *testing.T) {
	for _, role := range []string{"TEACHER", "STUDENT", ""} {
		app := newRBACTestApp(role, RequirePermission(policy.ActionLeaveDecide))

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusForbidden, resp.StatusCode, "role %q", role)
	}
}

func TestRequireRoleNormalizesCase(t *testing.T) {
	app := newRBACTestApp("student", RequireRole(models.RoleStudent))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCurrentUserIDMissing(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		require.Zero(t, CurrentUserID(c))
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
}

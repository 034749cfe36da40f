package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestSendSuccessDefaultsMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return SendSuccess(c, "", fiber.Map{"value": 1})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload APIResponse
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &payload))
	require.True(t, payload.Success)
	require.Equal(t, "success", payload.Message)
}

func TestSendErrorStatusAndShape(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return SendError(c, fiber.StatusForbidden, "insufficient permissions")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var payload APIResponse
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &payload))
	require.False(t, payload.Success)
	require.Equal(t, "insufficient permissions", payload.Message)
}

func TestSendPaginatedIncludesMeta(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return SendPaginated(c, "listed", []int{1, 2}, fiber.Map{"page": 1, "total": 2})
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	var payload struct {
		Meta map[string]interface{} `json:"meta"`
	}
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &payload))
	require.EqualValues(t, 1, payload.Meta["page"])
}

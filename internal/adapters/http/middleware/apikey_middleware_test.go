package middleware

import (
	"net/http/httptest"
	"testing"

	"loyaltyhub/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedApp(apiKey string) *fiber.App {
	app := fiber.New()
	app.Use(APIKey(&config.Config{APIKey: apiKey}))
	app.Get("/protected", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAPIKey_ValidKey(t *testing.T) {
	app := newProtectedApp("secret-key")

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(APIKeyHeader, "secret-key")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAPIKey_MissingKey(t *testing.T) {
	app := newProtectedApp("secret-key")

	req := httptest.NewRequest("GET", "/protected", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAPIKey_WrongKey(t *testing.T) {
	app := newProtectedApp("secret-key")

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set(APIKeyHeader, "not-the-key")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAPIKey_PreflightSkipsCheck(t *testing.T) {
	app := fiber.New()
	app.Use(APIKey(&config.Config{APIKey: "secret-key"}))
	app.Options("/protected", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest("OPTIONS", "/protected", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

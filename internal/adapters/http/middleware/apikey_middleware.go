package middleware

import (
	"crypto/subtle"

	"loyaltyhub/internal/config"
	"loyaltyhub/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// APIKeyHeader is the header carrying the client API key
const APIKeyHeader = "X-API-KEY"

// APIKey creates API-key authentication middleware. Health, swagger and
// upload routes are registered outside the protected group, so everything
// reaching this handler requires a key.
func APIKey(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// CORS preflight carries no custom headers
		if c.Method() == fiber.MethodOptions {
			return c.Next()
		}

		key := c.Get(APIKeyHeader)
		if key == "" {
			return response.Unauthorized(c, "API key was not provided")
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) != 1 {
			return response.Unauthorized(c, "Unauthorized client")
		}

		return c.Next()
	}
}

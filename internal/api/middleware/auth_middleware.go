package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/beampage/configs"
)

type AuthMiddleware struct {
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// AuthMiddleware gates the API behind the static API_KEY. With no key
// configured the API is open, which is the expected single-operator setup.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.cfg.APIKey == "" {
			return c.Next()
		}

		apiKey := c.Query("api_key")
		if apiKey == "" {
			apiKey = c.Get("X-Api-Key")
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(m.cfg.APIKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing or invalid API key",
			})
		}

		return c.Next()
	}
}

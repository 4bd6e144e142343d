package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// HeaderAPIKey carries the privileged credential.
const HeaderAPIKey = "X-API-Key"

// AdminRequired is a Fiber middleware guarding privileged routes. It compares
// the X-API-Key header against the configured secret before any store access.
// There is no session state; every request carries the credential.
func AdminRequired(apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		supplied := c.Get(HeaderAPIKey)
		if supplied == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "X-API-Key header is required",
			})
		}

		if subtle.ConstantTimeCompare([]byte(supplied), []byte(apiKey)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid API key",
			})
		}

		return c.Next()
	}
}

// Package httpapi exposes the crawl engine's HTTP surface: job submission,
// status, and cancellation, guarded by HMAC request signing.
package httpapi

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/llmrank/crawlengine/internal/signing"
)

// hmacAuth returns fiber middleware verifying the X-Signature/X-Timestamp
// headers against the request body using secret.
func hmacAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if len(body) > signing.MaxBodyBytes {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body too large"})
		}

		err := signing.Verify(secret, c.Get("X-Signature"), c.Get("X-Timestamp"), body, time.Now())
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Next()
	}
}

package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/maidsflow/control-api/internal/pkg/env"
)

// InternalTokenMiddleware guards operator-only routes with a shared
// token. When INTERNAL_API_TOKEN is unset the routes stay open, which
// is only acceptable behind network policy.
func InternalTokenMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		expected := env.GetEnv("INTERNAL_API_TOKEN", "")
		if expected == "" {
			return c.Next()
		}

		got := c.Get("X-Internal-Token")
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing or invalid internal token"})
		}
		return c.Next()
	}
}

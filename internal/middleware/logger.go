package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/werkbank/postplan/internal/logger"
)

// RequestLogger logs every request with method, path, status, client IP and
// latency
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		event := logger.Get().Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Str("ip", c.IP()).
			Dur("latency", time.Since(start))
		if err != nil {
			event = event.Err(err)
		}
		event.Msg("request")

		return err
	}
}

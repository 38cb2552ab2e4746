package http

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type loggerKey struct{}

// RequestLogger attaches a request-scoped slog.Logger carrying the request
// id to the user context, so handlers can log lines that correlate with the
// access log entry for the same request.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid, _ := c.Locals("requestid").(string)
		if rid == "" {
			return c.Next()
		}
		l := slog.Default().With("request_id", rid)
		c.SetUserContext(context.WithValue(c.UserContext(), loggerKey{}, l))
		return c.Next()
	}
}

// LoggerFromCtx returns the request-scoped logger, or the process default
// when the context carries none (tests, background work).
func LoggerFromCtx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

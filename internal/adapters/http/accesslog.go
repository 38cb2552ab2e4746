package http

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// AccessLogMiddleware writes one structured line per request. Probe and
// scrape endpoints only log when they fail, so the kubelet and Prometheus
// don't drown the log.
func AccessLogMiddleware() fiber.Handler {
	quiet := map[string]bool{
		"/v1/health": true,
		"/v1/ready":  true,
		"/metrics":   true,
	}

	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err == nil && status < 400 && quiet[c.Path()] {
			return nil
		}

		level := slog.LevelInfo
		switch {
		case err != nil || status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		rid, _ := c.Locals("requestid").(string)
		attrs := []slog.Attr{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes_out", len(c.Response().Body())),
			slog.String("request_id", rid),
		}
		if err != nil {
			attrs = append(attrs, slog.String("error", err.Error()))
		}

		slog.LogAttrs(c.UserContext(), level, "request", attrs...)
		return err
	}
}

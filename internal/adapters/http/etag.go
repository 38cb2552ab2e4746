package http

import (
	"crypto/sha256"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// ETagMiddleware adds a weak ETag to successful GET responses and answers
// If-None-Match revalidations with 304. The map page and boundary payloads
// run to hundreds of kilobytes and only change on dataset reloads, so
// revalidation saves most of the transfer between monthly ingests.
func ETagMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			return err
		}

		if c.Method() != fiber.MethodGet || c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}
		body := c.Response().Body()
		if len(body) == 0 {
			return nil
		}

		sum := sha256.Sum256(body)
		etag := fmt.Sprintf(`W/"%x"`, sum[:8])
		c.Set(fiber.HeaderETag, etag)

		if c.Get(fiber.HeaderIfNoneMatch) == etag {
			c.Status(fiber.StatusNotModified)
			c.Response().ResetBody()
		}
		return nil
	}
}

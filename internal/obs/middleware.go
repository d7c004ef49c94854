package obs

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// RequestID tags every request with X-Request-Id, keeping one sent by the client.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: "requestid",
	})
}

// RequestIDFromCtx returns the id set by RequestID, or "" when the middleware is not installed.
func RequestIDFromCtx(c *fiber.Ctx) string {
	v, _ := c.Locals("requestid").(string)
	return v
}

// AccessLog writes one "http_request" line per request after the handler chain ran.
func AccessLog() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		lat := time.Since(start)

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		Logger.Info("http_request",
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"bytes", len(c.Response().Body()),
			"latency_ms", float64(lat.Microseconds())/1000.0,
			"request_id", RequestIDFromCtx(c),
		)
		return err
	}
}

package security

import (
	"strings"

	"furniture-admin/internal/obs"

	"github.com/gofiber/fiber/v2"
)

// SignResponses signs every JSON response body, including error bodies
// rendered by the app's error handler.
func SignResponses(s *Signer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				return herr
			}
		}

		contentType := string(c.Response().Header.ContentType())
		if !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return nil
		}

		sig, err := s.Sign(c.Response().Body())
		if err != nil {
			obs.Logger.Error("response_sign_failed", "error", err, "path", c.Path())
			return nil
		}
		c.Set(HeaderSignature, sig)
		c.Set(HeaderSignatureAlgorithm, SignatureAlgorithm)
		return nil
	}
}

// GET /api/public-key
func PublicKeyHandler(s *Signer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"algorithm":  SignatureAlgorithm,
			"public_key": string(s.PublicKeyPEM()),
		})
	}
}

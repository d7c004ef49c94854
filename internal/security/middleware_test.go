package security

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedApp(t *testing.T) (*fiber.App, *Signer) {
	t.Helper()
	s, err := NewSigner(sharedKey(t))
	require.NoError(t, err)

	app := fiber.New()
	app.Use(Headers(), SignResponses(s))
	app.Get("/json", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true})
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "insufficient stock"})
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "short and stout")
	})
	app.Get("/text", func(c *fiber.Ctx) error {
		return c.SendString("plain")
	})
	app.Get("/api/public-key", PublicKeyHandler(s))
	return app, s
}

func get(t *testing.T, app *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestSignResponsesSignsJSON(t *testing.T) {
	app, s := signedApp(t)

	for _, path := range []string{"/json", "/fail"} {
		resp, body := get(t, app, path)
		assert.Equal(t, SignatureAlgorithm, resp.Header.Get(HeaderSignatureAlgorithm), path)
		assert.NoError(t, Verify(s.PublicKey(), body, resp.Header.Get(HeaderSignature)), path)
	}
}

func TestSignResponsesSkipsNonJSON(t *testing.T) {
	app, _ := signedApp(t)

	resp, body := get(t, app, "/text")
	assert.Equal(t, "plain", string(body))
	assert.Empty(t, resp.Header.Get(HeaderSignature))

	resp, _ = get(t, app, "/boom")
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(HeaderSignature))
}

func TestHeaders(t *testing.T) {
	app, _ := signedApp(t)
	resp, _ := get(t, app, "/json")

	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, ContentSecurityPolicy, resp.Header.Get("Content-Security-Policy"))
}

func TestPublicKeyHandler(t *testing.T) {
	app, s := signedApp(t)
	resp, body := get(t, app, "/api/public-key")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		Algorithm string `json:"algorithm"`
		PublicKey string `json:"public_key"`
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, SignatureAlgorithm, out.Algorithm)

	pub, err := ParsePublicKeyPEM([]byte(out.PublicKey))
	require.NoError(t, err)
	assert.True(t, s.PublicKey().Equal(pub))
}

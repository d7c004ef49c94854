package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	reply string
	err   error
	got   string
}

func (s *stubClient) Reply(_ context.Context, message string) (string, error) {
	s.got = message
	return s.reply, s.err
}

func postChat(t *testing.T, client Client, body string) *http.Response {
	t.Helper()
	app := fiber.New()
	app.Post("/api/chat", ChatHandler(client))

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestChatHandlerSuccess(t *testing.T) {
	stub := &stubClient{reply: "Tentu, ada 3 model sofa."}
	resp := postChat(t, stub, `{"message":"  Ada sofa?  "}`)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.True(t, out.Success)
	assert.Equal(t, "Tentu, ada 3 model sofa.", out.Reply)
	_, err := uuid.Parse(out.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Ada sofa?", stub.got)
}

func TestChatHandlerRejectsEmptyMessage(t *testing.T) {
	stub := &stubClient{reply: "unused"}
	for _, body := range []string{`{"message":""}`, `{"message":"   "}`, `{}`} {
		resp := postChat(t, stub, body)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, body)
	}
	assert.Empty(t, stub.got)
}

func TestChatHandlerProviderFailure(t *testing.T) {
	resp := postChat(t, &stubClient{err: errors.New("connection refused")}, `{"message":"halo"}`)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}

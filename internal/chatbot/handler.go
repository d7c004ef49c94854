package chatbot

import (
	"strings"
	"unicode/utf8"

	"furniture-admin/internal/obs"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const maxMessageLength = 2000

type ChatRequest struct {
	Message string `json:"message" form:"message"`
}

type ChatResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Reply   string `json:"reply"`
}

// POST /api/chat
func ChatHandler(client Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ChatRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		message := strings.TrimSpace(body.Message)
		if message == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Message cannot be empty")
		}
		if utf8.RuneCountInString(message) > maxMessageLength {
			return fiber.NewError(fiber.StatusBadRequest, "Message is too long")
		}

		reply, err := client.Reply(c.UserContext(), message)
		if err != nil {
			obs.Logger.Warn("chat_reply_failed",
				"error", err,
				"request_id", obs.RequestIDFromCtx(c),
			)
			return fiber.NewError(fiber.StatusServiceUnavailable, "AI service temporarily unavailable")
		}

		return c.JSON(ChatResponse{
			Success: true,
			ID:      uuid.NewString(),
			Reply:   reply,
		})
	}
}

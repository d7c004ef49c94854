// Package chatbot answers shopper questions through an external language
// model. The provider is chosen with AI_API.
package chatbot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"furniture-admin/internal/apperr"
	"furniture-admin/internal/config"

	"github.com/gofiber/fiber/v2"
)

const SystemPrompt = "You are a helpful shopping assistant. Help customers with product information and purchase inquiries."

const (
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderOllama   = "ollama"
)

const (
	maxTokens   = 500
	temperature = 0.7
)

var defaultBaseURLs = map[string]string{
	ProviderDeepSeek: "https://api.deepseek.com",
	ProviderOpenAI:   "https://api.openai.com",
	ProviderGemini:   "https://generativelanguage.googleapis.com",
	ProviderOllama:   "http://localhost:11434",
}

type Client interface {
	Reply(ctx context.Context, message string) (string, error)
}

type Options struct {
	Provider string
	BaseURL  string // empty means the provider's public endpoint
	APIKey   string
	Timeout  time.Duration
	Catalog  CatalogSource // optional
}

type httpClient struct {
	provider string
	baseURL  string
	apiKey   string
	timeout  time.Duration
	catalog  CatalogSource
}

func New(opts Options) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	base, ok := defaultBaseURLs[provider]
	if !ok {
		return nil, fmt.Errorf("chatbot: unknown AI provider %q", opts.Provider)
	}
	if opts.BaseURL != "" {
		base = opts.BaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &httpClient{
		provider: provider,
		baseURL:  strings.TrimRight(base, "/"),
		apiKey:   opts.APIKey,
		timeout:  opts.Timeout,
		catalog:  opts.Catalog,
	}, nil
}

// NewFromConfig picks the key and endpoint that belong to cfg.AIProvider.
func NewFromConfig(cfg *config.Config, catalog CatalogSource) (Client, error) {
	opts := Options{
		Provider: cfg.AIProvider,
		BaseURL:  cfg.AIBaseURL,
		Timeout:  cfg.AITimeout,
		Catalog:  catalog,
	}
	switch opts.Provider {
	case ProviderDeepSeek:
		opts.APIKey = cfg.DeepSeekAPIKey
	case ProviderOpenAI:
		opts.APIKey = cfg.OpenAIAPIKey
	case ProviderGemini:
		opts.APIKey = cfg.GeminiAPIKey
	case ProviderOllama:
		if opts.BaseURL == "" {
			opts.BaseURL = cfg.OllamaURL
		}
	}
	return New(opts)
}

func (c *httpClient) Reply(ctx context.Context, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", apperr.ErrUnavailable, err)
	}
	if c.provider != ProviderOllama && c.apiKey == "" {
		return "", fmt.Errorf("%w: %s api key is not configured", apperr.ErrUnavailable, c.provider)
	}

	system := systemPrompt(ctx, c.catalog)
	endpoint, body := c.request(system, message)

	a := fiber.Post(endpoint)
	a.JSON(body)
	if c.provider == ProviderDeepSeek || c.provider == ProviderOpenAI {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.apiKey)
	}
	a.Timeout(c.timeoutFor(ctx))

	code, raw, errs := a.Bytes()
	if len(errs) > 0 {
		return "", fmt.Errorf("%w: %s request: %w", apperr.ErrUnavailable, c.provider, errors.Join(errs...))
	}
	if code != fiber.StatusOK {
		return "", fmt.Errorf("%w: %s responded with status %d", apperr.ErrUnavailable, c.provider, code)
	}

	reply, err := c.parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", apperr.ErrUnavailable, c.provider, err)
	}
	return reply, nil
}

func (c *httpClient) timeoutFor(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	return timeout
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		MaxOutputTokens int `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (c *httpClient) request(system, message string) (string, any) {
	switch c.provider {
	case ProviderGemini:
		var req geminiRequest
		req.Contents = []geminiContent{{Parts: []geminiPart{{Text: system + "\n\n" + message}}}}
		req.GenerationConfig.MaxOutputTokens = maxTokens
		return c.baseURL + "/v1beta/models/gemini-pro:generateContent?key=" + url.QueryEscape(c.apiKey), req
	case ProviderOllama:
		return c.baseURL + "/api/generate", ollamaRequest{
			Model:  "llama2",
			Prompt: message,
			System: system,
			Stream: false,
		}
	}

	model, path := "deepseek-chat", "/chat/completions"
	if c.provider == ProviderOpenAI {
		model, path = "gpt-3.5-turbo", "/v1/chat/completions"
	}
	return c.baseURL + path, chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: message},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}

var errEmptyReply = errors.New("empty reply")

func (c *httpClient) parse(raw []byte) (string, error) {
	var reply string
	switch c.provider {
	case ProviderGemini:
		var resp geminiResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return "", err
		}
		if len(resp.Candidates) > 0 && len(resp.Candidates[0].Content.Parts) > 0 {
			reply = resp.Candidates[0].Content.Parts[0].Text
		}
	case ProviderOllama:
		var resp ollamaResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return "", err
		}
		reply = resp.Response
	default:
		var resp chatCompletionResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return "", err
		}
		if len(resp.Choices) > 0 {
			reply = resp.Choices[0].Message.Content
		}
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", errEmptyReply
	}
	return reply, nil
}

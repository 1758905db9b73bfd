package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// LLMClient define la interfaz para generar respuestas con un LLM.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	HasCredential() bool
}

// Options configura OpenAIClient.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// OpenAIClient implementa LLMClient contra la API de chat completions.
type OpenAIClient struct {
	client      *openai.Client
	apiKey      string
	model       string
	temperature float32
	logger      *zap.Logger
}

// NewOpenAIClient construye un cliente apuntando a la API de chat completions.
func NewOpenAIClient(opts Options, logger *zap.Logger) *OpenAIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.openai.com/v1"
	}
	if opts.Model == "" {
		opts.Model = openai.GPT3Dot5Turbo
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	// Timeout cero deja al cliente sin límite propio.
	cfg.HTTPClient = &http.Client{Timeout: opts.Timeout}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(cfg),
		apiKey:      opts.APIKey,
		model:       opts.Model,
		temperature: float32(opts.Temperature),
		logger:      logger,
	}
}

// HasCredential informa si hay API key configurada.
func (c *OpenAIClient) HasCredential() bool {
	return strings.TrimSpace(c.apiKey) != ""
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		normalized := normalizeError(err)
		c.logger.Debug("chat completion failed", zap.String("model", c.model), zap.Error(normalized))
		return "", normalized
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyChoices
	}

	return resp.Choices[0].Message.Content, nil
}

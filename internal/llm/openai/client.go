package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"creerlio-backend/internal/llm"
	"creerlio-backend/internal/shared/metrics"
	"creerlio-backend/internal/shared/telemetry"
)

// Config holds the OpenAI-compatible provider settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	// Timeout bounds each Extract call; zero leaves the caller's context as the only bound.
	Timeout time.Duration
	Logger  *zap.Logger
}

// Client implements llm.StructuredClient using Chat Completions in JSON mode.
type Client struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient constructs a new OpenAI client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.BaseURL = strings.TrimRight(base, "/")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.L()
	}

	return &Client{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Extract sends one chat completion and returns the assistant content as raw JSON.
// The schema, when present, is appended to the system message as a hint.
func (c *Client) Extract(ctx context.Context, req llm.ExtractRequest) (json.RawMessage, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	system := req.System
	if len(req.Schema) > 0 {
		system += "\n\nJSON schema for the response:\n" + string(req.Schema)
	}
	chatReq := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		Temperature: req.Temperature,
	}
	if req.JSONObject {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	op := req.Operation
	if op == "" {
		op = "extract"
	}
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		metrics.IncLLMRequest(op, "error")
		return nil, parseAPIError(err)
	}
	if len(resp.Choices) == 0 {
		metrics.IncLLMRequest(op, "empty")
		return nil, fmt.Errorf("openai response missing choices: %w", llm.ErrEmptyResponse)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		metrics.IncLLMRequest(op, "empty")
		return nil, fmt.Errorf("openai response empty content: %w", llm.ErrEmptyResponse)
	}

	metrics.IncLLMRequest(op, "ok")
	c.logger.Info("llm.response",
		zap.String("operation", op),
		zap.String("model", c.model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
		zap.Duration("elapsed", time.Since(start)),
	)
	return json.RawMessage(content), nil
}

// parseAPIError turns go-openai errors into readable messages wrapped with llm.ErrProvider.
// Context errors keep their identity so callers can tell a timeout from a provider fault.
func parseAPIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("openai request: %w", err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("openai API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, llm.ErrProvider)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("openai request error %d: %s: %w", reqErr.HTTPStatusCode, strings.TrimSpace(string(reqErr.Body)), llm.ErrProvider)
	}

	return fmt.Errorf("openai request failed: %v: %w", err, llm.ErrProvider)
}

var _ llm.StructuredClient = (*Client)(nil)

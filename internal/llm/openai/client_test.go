package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"creerlio-backend/internal/llm"
)

type capturedRequest struct {
	Model          string  `json:"model"`
	Temperature    float64 `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newTestServer(t *testing.T, status int, body string) (*httptest.Server, func() capturedRequest) {
	t.Helper()
	var (
		mu   sync.Mutex
		last capturedRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload capturedRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		mu.Lock()
		last = payload
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, func() capturedRequest {
		mu.Lock()
		defer mu.Unlock()
		return last
	}
}

func newClient(t *testing.T, baseURL string, timeout time.Duration) *Client {
	t.Helper()
	c, err := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gpt-4o-mini",
		Timeout: timeout,
		Logger:  zap.NewNop(),
	})
	require.NoError(t, err)
	return c
}

const okBody = `{"id":"chatcmpl-1","object":"chat.completion","model":"gpt-4o-mini",
"choices":[{"index":0,"message":{"role":"assistant","content":" {\"name\":\"John Doe\"} "},"finish_reason":"stop"}],
"usage":{"prompt_tokens":12,"completion_tokens":5,"total_tokens":17}}`

func TestExtractSendsJSONModeRequest(t *testing.T) {
	server, last := newTestServer(t, http.StatusOK, okBody)
	c := newClient(t, server.URL, 0)

	raw, err := c.Extract(context.Background(), llm.ExtractRequest{
		Operation:   "normalize",
		System:      "Return JSON.",
		User:        "John Doe",
		Schema:      json.RawMessage(`{"type":"object"}`),
		Temperature: llm.DeterministicTemperature,
		JSONObject:  true,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"John Doe"}`, string(raw))

	req := last()
	assert.Equal(t, "gpt-4o-mini", req.Model)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, "json_object", req.ResponseFormat.Type)
	assert.Greater(t, req.Temperature, 0.0)
	assert.Less(t, req.Temperature, 1e-6)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "Return JSON.")
	assert.Contains(t, req.Messages[0].Content, `{"type":"object"}`)
	assert.Equal(t, "user", req.Messages[1].Role)
	assert.Equal(t, "John Doe", req.Messages[1].Content)
}

func TestExtractPassesEnhanceTemperature(t *testing.T) {
	server, last := newTestServer(t, http.StatusOK, okBody)
	c := newClient(t, server.URL, 0)

	_, err := c.Extract(context.Background(), llm.ExtractRequest{
		Operation:   "enhance",
		User:        "{}",
		Temperature: llm.EnhanceTemperature,
		JSONObject:  true,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.7, last().Temperature, 0.0001)
}

func TestExtractProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`,
			want:   llm.ErrProvider,
		},
		{
			name:   "bad gateway without error body",
			status: http.StatusBadGateway,
			body:   `upstream down`,
			want:   llm.ErrProvider,
		},
		{
			name:   "no choices",
			status: http.StatusOK,
			body:   `{"id":"x","object":"chat.completion","choices":[]}`,
			want:   llm.ErrEmptyResponse,
		},
		{
			name:   "blank content",
			status: http.StatusOK,
			body:   `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"   "}}]}`,
			want:   llm.ErrEmptyResponse,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newTestServer(t, tt.status, tt.body)
			_, err := newClient(t, server.URL, 0).Extract(context.Background(), llm.ExtractRequest{User: "x", JSONObject: true})
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExtractRateLimitMessageIsReadable(t *testing.T) {
	server, _ := newTestServer(t, http.StatusTooManyRequests,
		`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`)
	_, err := newClient(t, server.URL, 0).Extract(context.Background(), llm.ExtractRequest{User: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "Rate limit reached")
}

func TestExtractTimeoutSurfacesAsDeadline(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	c := newClient(t, server.URL, 50*time.Millisecond)
	_, err := c.Extract(context.Background(), llm.ExtractRequest{User: "x"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClientValidates(t *testing.T) {
	_, err := NewClient(Config{APIKey: "k"})
	require.Error(t, err)
	_, err = NewClient(Config{Model: "gpt-4o"})
	require.Error(t, err)

	c, err := NewClient(Config{APIKey: "k", Model: "gpt-4o"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", c.Model())
}

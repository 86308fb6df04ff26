package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
)

const (
	// DeterministicTemperature is the lowest sampling temperature that providers
	// will not treat as "unset".
	DeterministicTemperature float32 = math.SmallestNonzeroFloat32
	// EnhanceTemperature is used for exploratory suggestion generation.
	EnhanceTemperature float32 = 0.7
)

// StructuredClient is a text-understanding service that turns a prompt into a JSON object.
type StructuredClient interface {
	Extract(ctx context.Context, req ExtractRequest) (json.RawMessage, error)
	// Model identifies the model that serves Extract calls.
	Model() string
}

// ExtractRequest is one structured extraction call.
type ExtractRequest struct {
	// Operation labels the call in logs and metrics, e.g. "normalize".
	Operation   string
	System      string
	User        string
	Schema      json.RawMessage
	Temperature float32
	// JSONObject asks the provider to constrain output to a single JSON object.
	JSONObject bool
}

var (
	// ErrNotImplemented is returned by the placeholder client.
	ErrNotImplemented = errors.New("LLM not implemented")
	// ErrProvider wraps failures reported by the provider API.
	ErrProvider = errors.New("llm provider error")
	// ErrEmptyResponse is returned when the provider answers without content.
	ErrEmptyResponse = errors.New("llm response empty")
)

// PlaceholderClient stands in when no provider is configured.
type PlaceholderClient struct{}

// Extract returns ErrNotImplemented.
func (PlaceholderClient) Extract(context.Context, ExtractRequest) (json.RawMessage, error) {
	return nil, ErrNotImplemented
}

// Model returns "none".
func (PlaceholderClient) Model() string { return "none" }

var _ StructuredClient = PlaceholderClient{}

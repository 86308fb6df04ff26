package llmtest

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"creerlio-backend/internal/llm"
)

// MockClient is a testify mock of llm.StructuredClient.
type MockClient struct {
	mock.Mock
	ModelName string
}

func (m *MockClient) Extract(ctx context.Context, req llm.ExtractRequest) (json.RawMessage, error) {
	args := m.Called(ctx, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	switch v := args.Get(0).(type) {
	case string:
		return json.RawMessage(v), args.Error(1)
	default:
		return v.(json.RawMessage), args.Error(1)
	}
}

func (m *MockClient) Model() string {
	if m.ModelName == "" {
		return "test-model"
	}
	return m.ModelName
}

// Operation matches requests by their Operation label.
func Operation(op string) any {
	return mock.MatchedBy(func(req llm.ExtractRequest) bool {
		return req.Operation == op
	})
}

var _ llm.StructuredClient = (*MockClient)(nil)

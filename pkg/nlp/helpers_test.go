package nlp

import (
	"context"

	"github.com/soundprediction/graphrag/pkg/types"
)

// mockClient is a mock LLM client for testing
type mockClient struct {
	callCount        int
	failUntilCall    int
	errorToReturn    error
	responseToReturn *types.Response
	lastMessages     []types.Message
	structuredCalls  int
}

func (m *mockClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	m.callCount++
	m.lastMessages = messages
	if m.callCount <= m.failUntilCall {
		return nil, m.errorToReturn
	}
	if m.responseToReturn != nil {
		return m.responseToReturn, nil
	}
	return &types.Response{Content: "success"}, nil
}

func (m *mockClient) ChatWithStructuredOutput(ctx context.Context, messages []types.Message, schema any) (*types.Response, error) {
	m.structuredCalls++
	m.callCount++
	m.lastMessages = messages
	if m.callCount <= m.failUntilCall {
		return nil, m.errorToReturn
	}
	return &types.Response{Content: `{"status": "success"}`}, nil
}

func (m *mockClient) Close() error {
	return nil
}

package nlp

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/sashabaranov/go-openai"
	"github.com/soundprediction/graphrag/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	mock := &mockClient{responseToReturn: &types.Response{Content: "the answer"}}

	got, err := Generate(context.Background(), mock, "what is graphrag?")
	require.NoError(t, err)
	assert.Equal(t, "the answer", got)
	require.Len(t, mock.lastMessages, 1)
	assert.Equal(t, RoleUser, mock.lastMessages[0].Role)
	assert.Equal(t, "what is graphrag?", mock.lastMessages[0].Content)
}

func TestGenerateJSONUsesStructuredOutput(t *testing.T) {
	mock := &mockClient{}

	got, err := GenerateJSON(context.Background(), mock, "extract")
	require.NoError(t, err)
	assert.JSONEq(t, `{"status": "success"}`, got)
	assert.Equal(t, 1, mock.structuredCalls)
}

func TestGeneratePropagatesErrors(t *testing.T) {
	mock := &mockClient{failUntilCall: 1, errorToReturn: errors.New("boom")}

	_, err := Generate(context.Background(), mock, "prompt")
	assert.EqualError(t, err, "boom")
}

func TestValidateBaseURL(t *testing.T) {
	assert.NoError(t, validateBaseURL("http://localhost:11434"))
	assert.NoError(t, validateBaseURL("https://api.example.com/v1"))
	assert.Error(t, validateBaseURL(""))
	assert.Error(t, validateBaseURL("localhost:8080"))
	assert.Error(t, validateBaseURL("ftp://example.com"))
}

func TestHasAPIPath(t *testing.T) {
	assert.True(t, hasAPIPath("http://localhost:8000/v1"))
	assert.True(t, hasAPIPath("http://localhost:8000/api/"))
	assert.False(t, hasAPIPath("http://localhost:8000"))
}

func TestNewOpenAIClientDefaults(t *testing.T) {
	client, err := NewOpenAIClient("key", Config{})
	require.NoError(t, err)
	assert.Equal(t, openai.GPT4oMini, client.config.Model)

	_, err = NewOpenAIClient("", Config{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestBuildChatRequest(t *testing.T) {
	temperature := float32(0.2)
	client, err := NewOpenAIClient("key", Config{Model: "gpt-4o", Temperature: &temperature})
	require.NoError(t, err)

	req := client.buildChatRequest([]types.Message{NewSystemMessage("sys"), NewUserMessage("hi")}, true)
	assert.Equal(t, "gpt-4o", req.Model)
	assert.Equal(t, float32(0.2), req.Temperature)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, "system", req.Messages[0].Role)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, req.ResponseFormat.Type)
}

func TestMapOpenAIError(t *testing.T) {
	rateLimited := mapOpenAIError("chat", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow"})
	assert.ErrorIs(t, rateLimited, ErrRateLimit)

	network := mapOpenAIError("chat", &url.Error{Op: "Post", URL: "http://x", Err: errors.New("connection refused")})
	assert.ErrorIs(t, network, types.ErrUnavailable)

	other := mapOpenAIError("chat", &openai.APIError{HTTPStatusCode: http.StatusBadRequest, Message: "bad"})
	assert.NotErrorIs(t, other, types.ErrUnavailable)
	assert.NotErrorIs(t, other, ErrRateLimit)
}

func TestMapOllamaError(t *testing.T) {
	rateLimited := MapOllamaError("chat", api.StatusError{StatusCode: http.StatusTooManyRequests, ErrorMessage: "busy"})
	assert.ErrorIs(t, rateLimited, ErrRateLimit)

	down := MapOllamaError("chat", api.StatusError{StatusCode: http.StatusBadGateway})
	assert.ErrorIs(t, down, types.ErrUnavailable)

	notFound := MapOllamaError("chat", api.StatusError{StatusCode: http.StatusNotFound, ErrorMessage: "model not found"})
	assert.NotErrorIs(t, notFound, types.ErrUnavailable)
}

func TestNewOllamaClientDefaults(t *testing.T) {
	client, err := NewOllamaClient(Config{BaseURL: "http://localhost:11434"}, OllamaOptions{})
	require.NoError(t, err)
	assert.Equal(t, DefaultOllamaModel, client.config.Model)
}

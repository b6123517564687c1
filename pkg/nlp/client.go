package nlp

import (
	"context"

	"github.com/soundprediction/graphrag/pkg/types"
)

// Client defines the interface for language model operations.
type Client interface {
	// Chat sends a chat completion request and returns the response.
	Chat(ctx context.Context, messages []types.Message) (*types.Response, error)

	// ChatWithStructuredOutput sends a chat completion request that must be answered with JSON.
	ChatWithStructuredOutput(ctx context.Context, messages []types.Message, schema any) (*types.Response, error)

	// Close cleans up any resources.
	Close() error
}

const (
	// RoleSystem represents a system message.
	RoleSystem types.Role = "system"
	// RoleUser represents a user message.
	RoleUser types.Role = "user"
	// RoleAssistant represents an assistant message.
	RoleAssistant types.Role = "assistant"
)

// Config holds generation settings shared by the clients.
type Config struct {
	Model       string   `json:"model"`
	Temperature *float32 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
	BaseURL     string   `json:"base_url,omitempty"`
}

// NewMessage creates a new message with the specified role and content.
func NewMessage(role types.Role, content string) types.Message {
	return types.Message{
		Role:    role,
		Content: content,
	}
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) types.Message {
	return NewMessage(RoleSystem, content)
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) types.Message {
	return NewMessage(RoleUser, content)
}

// Generate sends prompt as a single user message and returns the reply text.
func Generate(ctx context.Context, client Client, prompt string) (string, error) {
	resp, err := client.Chat(ctx, []types.Message{NewUserMessage(prompt)})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", NewEmptyResponseError("the LLM returned no response")
	}
	return resp.Content, nil
}

// GenerateJSON is Generate with JSON output requested from the model.
func GenerateJSON(ctx context.Context, client Client, prompt string) (string, error) {
	resp, err := client.ChatWithStructuredOutput(ctx, []types.Message{NewUserMessage(prompt)}, nil)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", NewEmptyResponseError("the LLM returned no response")
	}
	return resp.Content, nil
}

package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"github.com/soundprediction/graphrag/pkg/types"
	"golang.org/x/sync/semaphore"
)

// DefaultOllamaModel is used when Config.Model is empty.
const DefaultOllamaModel = "llama3.1"

// OllamaClient implements the Client interface against an Ollama server.
type OllamaClient struct {
	client  *api.Client
	config  Config
	reqLock *semaphore.Weighted
}

// OllamaOptions configures transport details of an OllamaClient.
type OllamaOptions struct {
	APIKey                string
	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewOllamaHTTPClient returns an api.Client for baseURL, adding a bearer
// token to every request when apiKey is set. An empty baseURL uses the
// OLLAMA_HOST environment default.
func NewOllamaHTTPClient(baseURL, apiKey string) (*api.Client, error) {
	if baseURL == "" {
		return api.ClientFromEnvironment()
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	httpClient := http.DefaultClient
	if apiKey != "" {
		httpClient = &http.Client{
			Transport: &headerTransport{
				headers: map[string]string{"Authorization": "Bearer " + apiKey},
				rt:      http.DefaultTransport,
			},
		}
	}
	return api.NewClient(u, httpClient), nil
}

// NewOllamaClient creates a chat client for an Ollama server.
func NewOllamaClient(config Config, opts OllamaOptions) (*OllamaClient, error) {
	cli, err := NewOllamaHTTPClient(config.BaseURL, opts.APIKey)
	if err != nil {
		return nil, err
	}

	if config.Model == "" {
		config.Model = DefaultOllamaModel
	}
	if opts.MaxConcurrentRequests <= 0 {
		opts.MaxConcurrentRequests = 4
	}

	return &OllamaClient{
		client:  cli,
		config:  config,
		reqLock: semaphore.NewWeighted(opts.MaxConcurrentRequests),
	}, nil
}

// Chat sends a non-streaming chat request.
func (c *OllamaClient) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	return c.chat(ctx, messages, nil)
}

// ChatWithStructuredOutput requests JSON output from the model.
func (c *OllamaClient) ChatWithStructuredOutput(ctx context.Context, messages []types.Message, schema any) (*types.Response, error) {
	format := json.RawMessage(`"json"`)
	if schema != nil {
		b, err := json.Marshal(schema)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schema: %w", err)
		}
		format = b
	}
	return c.chat(ctx, messages, format)
}

// Close is a no-op.
func (c *OllamaClient) Close() error {
	return nil
}

func (c *OllamaClient) chat(ctx context.Context, messages []types.Message, format json.RawMessage) (*types.Response, error) {
	msgs := make([]api.Message, len(messages))
	for i, m := range messages {
		msgs[i] = api.Message{Role: string(m.Role), Content: m.Content}
	}

	stream := false
	req := &api.ChatRequest{
		Model:    c.config.Model,
		Messages: msgs,
		Stream:   &stream,
		Format:   format,
		Options:  map[string]any{},
	}
	if c.config.Temperature != nil {
		req.Options["temperature"] = *c.config.Temperature
	}
	if c.config.MaxTokens != nil {
		req.Options["num_predict"] = *c.config.MaxTokens
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	var final api.ChatResponse
	if err := c.client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.DoneReason = cr.DoneReason
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return nil, MapOllamaError("chat", err)
	}

	response := &types.Response{
		Content:      final.Message.Content,
		FinishReason: final.DoneReason,
		Model:        c.config.Model,
	}
	if total := final.Metrics.PromptEvalCount + final.Metrics.EvalCount; total > 0 {
		response.TokensUsed = &types.TokenUsage{
			PromptTokens:     final.Metrics.PromptEvalCount,
			CompletionTokens: final.Metrics.EvalCount,
			TotalTokens:      total,
		}
	}
	return response, nil
}

// MapOllamaError classifies an error returned by an Ollama api.Client.
func MapOllamaError(op string, err error) error {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusTooManyRequests {
			return NewRateLimitError(statusErr.ErrorMessage)
		}
		if statusErr.StatusCode >= http.StatusInternalServerError {
			return types.NewUnavailableError("ollama", op, err)
		}
		return fmt.Errorf("ollama %s failed: %w", op, err)
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return types.NewUnavailableError("ollama", op, err)
	}

	return fmt.Errorf("ollama %s failed: %w", op, err)
}

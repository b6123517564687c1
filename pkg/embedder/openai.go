package embedder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/soundprediction/graphrag/pkg/types"
)

var openAIDimensions = map[string]int{
	string(openai.SmallEmbedding3): 1536,
	string(openai.LargeEmbedding3): 3072,
	string(openai.AdaEmbeddingV2):  1536,
}

// OpenAIEmbedder implements Client with the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client *openai.Client
	config Config
}

// NewOpenAIEmbedder creates a new OpenAI embedder.
func NewOpenAIEmbedder(apiKey string, config Config) *OpenAIEmbedder {
	clientConfig := openai.DefaultConfig(apiKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(config.BaseURL, "/")
		if !strings.HasSuffix(clientConfig.BaseURL, "/v1") {
			clientConfig.BaseURL += "/v1"
		}
	}

	if config.Model == "" {
		config.Model = string(openai.SmallEmbedding3)
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 100
	}
	if config.Dimensions <= 0 {
		config.Dimensions = openAIDimensions[config.Model]
		if config.Dimensions == 0 {
			config.Dimensions = 1536
		}
	}

	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}
}

// Embed generates embeddings in batches of Config.BatchSize.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for _, batch := range batches(texts, e.config.BatchSize) {
		resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: batch,
			Model: openai.EmbeddingModel(e.config.Model),
		})
		if err != nil {
			return nil, mapError("openai", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, types.NewMalformedDataError("openai", "data", fmt.Sprintf("expected %d embeddings, got %d", len(batch), len(resp.Data)))
		}

		ordered := make([][]float32, len(batch))
		for _, d := range resp.Data {
			if d.Index < 0 || d.Index >= len(batch) {
				return nil, types.NewMalformedDataError("openai", "index", fmt.Sprintf("out of range: %d", d.Index))
			}
			ordered[d.Index] = d.Embedding
		}
		out = append(out, ordered...)
	}
	return out, nil
}

// EmbedSingle generates an embedding for a single text.
func (e *OpenAIEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return embedSingle(ctx, e, text)
}

// Dimensions returns the embedding size of the configured model.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.config.Dimensions
}

// Close is a no-op.
func (e *OpenAIEmbedder) Close() error {
	return nil
}

func mapError(service string, err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode >= http.StatusInternalServerError {
		return types.NewUnavailableError(service, "embed", err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return types.NewUnavailableError(service, "embed", err)
	}
	return fmt.Errorf("%s embed failed: %w", service, err)
}

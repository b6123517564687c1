package embedder

import (
	"context"
	"fmt"

	"github.com/ollama/ollama/api"
	"github.com/soundprediction/graphrag/pkg/nlp"
	"github.com/soundprediction/graphrag/pkg/types"
)

// DefaultOllamaModel is used when Config.Model is empty.
const DefaultOllamaModel = "nomic-embed-text"

// OllamaEmbedder implements Client with an Ollama server's embed endpoint.
type OllamaEmbedder struct {
	client *api.Client
	config Config
}

// NewOllamaEmbedder creates an embedder for an Ollama server. Dimensions
// must match the model since Ollama does not report them up front.
func NewOllamaEmbedder(config Config, apiKey string) (*OllamaEmbedder, error) {
	cli, err := nlp.NewOllamaHTTPClient(config.BaseURL, apiKey)
	if err != nil {
		return nil, err
	}
	if config.Model == "" {
		config.Model = DefaultOllamaModel
	}
	if config.Dimensions <= 0 {
		config.Dimensions = 768
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 32
	}

	return &OllamaEmbedder{client: cli, config: config}, nil
}

// Embed generates embeddings in batches of Config.BatchSize.
func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for _, batch := range batches(texts, e.config.BatchSize) {
		res, err := e.client.Embed(ctx, &api.EmbedRequest{
			Model: e.config.Model,
			Input: batch,
		})
		if err != nil {
			return nil, nlp.MapOllamaError("embed", err)
		}
		if len(res.Embeddings) != len(batch) {
			return nil, types.NewMalformedDataError("ollama", "embeddings", fmt.Sprintf("expected %d embeddings, got %d", len(batch), len(res.Embeddings)))
		}
		out = append(out, res.Embeddings...)
	}
	return out, nil
}

// EmbedSingle generates an embedding for a single text.
func (e *OllamaEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return embedSingle(ctx, e, text)
}

// Dimensions returns the configured embedding size.
func (e *OllamaEmbedder) Dimensions() int {
	return e.config.Dimensions
}

// Close is a no-op.
func (e *OllamaEmbedder) Close() error {
	return nil
}

package graphrag

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/soundprediction/graphrag"
	"github.com/soundprediction/graphrag/pkg/config"
	"github.com/soundprediction/graphrag/pkg/driver"
	"github.com/soundprediction/graphrag/pkg/embedder"
	"github.com/soundprediction/graphrag/pkg/logger"
	"github.com/soundprediction/graphrag/pkg/nlp"
	"github.com/soundprediction/graphrag/pkg/vectorstore"
)

// loadConfig loads configuration and builds the logger it describes.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, newLogger(cfg), nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level, err := logger.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return logger.New(logger.Options{
		Level:  level,
		Format: logger.ParseFormat(cfg.Log.Format),
		Output: os.Stderr,
	})
}

// initializeClient connects every store and model client described by cfg.
func initializeClient(ctx context.Context, cfg *config.Config, log *slog.Logger) (*graphrag.Client, error) {
	graph, err := driver.NewNeo4jDriver(cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password, cfg.Graph.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to create graph driver: %w", err)
	}

	vectors, err := vectorstore.NewPGVectorStore(ctx, vectorstore.Config{
		URL:        cfg.Vector.URL,
		Table:      cfg.Vector.Table,
		Dimensions: cfg.Vector.Dimensions,
	})
	if err != nil {
		release(graph.Close)
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}
	closeVectors := func() error { vectors.Close(); return nil }

	llmClient, err := newLLMClient(cfg, log)
	if err != nil {
		release(closeVectors, graph.Close)
		return nil, err
	}

	embedderClient, err := newEmbedder(cfg)
	if err != nil {
		release(llmClient.Close, closeVectors, graph.Close)
		return nil, err
	}

	client, err := graphrag.NewClient(graph, vectors, llmClient, embedderClient, &graphrag.Config{
		SummaryDir:     cfg.Communities.SummaryDir,
		MaxConcurrency: cfg.Communities.MaxConcurrency,
		MaxPasses:      cfg.Communities.MaxPasses,
	}, log)
	if err != nil {
		release(embedderClient.Close, llmClient.Close, closeVectors, graph.Close)
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	log.Info("GraphRAG initialized",
		"graph", cfg.Graph.URI,
		"nlp_provider", cfg.NLP.Provider,
		"nlp_model", cfg.NLP.Model,
		"embedding_provider", cfg.Embedding.Provider,
		"embedding_model", cfg.Embedding.Model)
	return client, nil
}

// release closes collaborators in order after a failed setup. Close errors
// are dropped; the setup error is the one reported.
func release(closers ...func() error) {
	for _, c := range closers {
		_ = c()
	}
}

// newLLMClient builds the chat client and wraps it with the configured
// retry and circuit breaker decorators.
func newLLMClient(cfg *config.Config, log *slog.Logger) (nlp.Client, error) {
	nlpConfig := nlp.Config{
		Model:   cfg.NLP.Model,
		BaseURL: cfg.NLP.BaseURL,
	}
	if cfg.NLP.Temperature != 0 {
		temperature := cfg.NLP.Temperature
		nlpConfig.Temperature = &temperature
	}
	if cfg.NLP.MaxTokens > 0 {
		maxTokens := cfg.NLP.MaxTokens
		nlpConfig.MaxTokens = &maxTokens
	}

	var (
		client nlp.Client
		err    error
	)
	switch cfg.NLP.Provider {
	case config.ProviderOpenAI:
		client, err = nlp.NewOpenAIClient(cfg.NLP.APIKey, nlpConfig)
	case config.ProviderOllama:
		client, err = nlp.NewOllamaClient(nlpConfig, nlp.OllamaOptions{APIKey: cfg.NLP.APIKey})
	default:
		return nil, fmt.Errorf("unsupported NLP provider: %s", cfg.NLP.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create NLP client: %w", err)
	}

	if cfg.CircuitBreaker.Enabled {
		cb := nlp.DefaultCircuitBreakerConfig()
		if cfg.CircuitBreaker.MaxRequests > 0 {
			cb.MaxRequests = cfg.CircuitBreaker.MaxRequests
		}
		if cfg.CircuitBreaker.Interval > 0 {
			cb.Interval = time.Duration(cfg.CircuitBreaker.Interval) * time.Second
		}
		if cfg.CircuitBreaker.Timeout > 0 {
			cb.Timeout = time.Duration(cfg.CircuitBreaker.Timeout) * time.Second
		}
		if cfg.CircuitBreaker.FailureThreshold > 0 {
			cb.FailureRatio = cfg.CircuitBreaker.FailureThreshold
		}
		client = nlp.NewCircuitBreakerClient(client, cb, cfg.NLP.Provider, log)
	}

	if cfg.Retry.Enabled {
		client = nlp.NewRetryClient(client, &nlp.RetryConfig{
			MaxRetries:        cfg.Retry.MaxRetries,
			InitialDelay:      cfg.Retry.InitialDelay,
			MaxDelay:          cfg.Retry.MaxDelay,
			BackoffMultiplier: cfg.Retry.BackoffMultiplier,
		}).WithLogger(log)
	}

	return client, nil
}

// newEmbedder builds the embedding client, cached on disk when a cache
// path is configured.
func newEmbedder(cfg *config.Config) (embedder.Client, error) {
	embedderConfig := embedder.Config{
		Model:      cfg.Embedding.Model,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
		BatchSize:  cfg.Embedding.BatchSize,
	}

	var client embedder.Client
	switch cfg.Embedding.Provider {
	case config.ProviderOpenAI:
		client = embedder.NewOpenAIEmbedder(cfg.Embedding.APIKey, embedderConfig)
	case config.ProviderOllama:
		ollama, err := embedder.NewOllamaEmbedder(embedderConfig, cfg.Embedding.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedder: %w", err)
		}
		client = ollama
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}

	if cfg.Embedding.CachePath == "" {
		return client, nil
	}
	cached, err := embedder.NewCachedEmbedder(client, cfg.Embedding.CachePath, cfg.Embedding.Model)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}
	return cached, nil
}

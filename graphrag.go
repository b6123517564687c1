package graphrag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/soundprediction/graphrag/pkg/community"
	"github.com/soundprediction/graphrag/pkg/driver"
	"github.com/soundprediction/graphrag/pkg/embedder"
	"github.com/soundprediction/graphrag/pkg/extract"
	"github.com/soundprediction/graphrag/pkg/index"
	"github.com/soundprediction/graphrag/pkg/nlp"
	"github.com/soundprediction/graphrag/pkg/normalize"
	"github.com/soundprediction/graphrag/pkg/search"
	"github.com/soundprediction/graphrag/pkg/types"
	"github.com/soundprediction/graphrag/pkg/vectorstore"
)

const (
	DefaultLocalTopK  = 5
	DefaultGlobalTopK = 3
	DefaultSummaryDir = "data/communities"
)

// Client is the main implementation of the GraphRAG interface.
type Client struct {
	graph    driver.GraphStore
	vectors  vectorstore.Store
	llm      nlp.Client
	embedder embedder.Client

	extractor *extract.Extractor
	indexer   *index.Indexer
	local     *search.LocalSearchEngine
	global    *search.GlobalSearchEngine
	builder   *community.Builder
	summaries community.SummaryStore

	config *Config
	logger *slog.Logger
}

// Config holds configuration for the GraphRAG client.
type Config struct {
	// SummaryDir holds one JSON file per community. Ignored when Summaries is set.
	SummaryDir string
	// Summaries overrides the file-backed summary store
	Summaries community.SummaryStore
	// MaxConcurrency bounds concurrent community summarization
	MaxConcurrency int
	// MaxPasses caps Louvain local-move passes
	MaxPasses int
	// Normalizer is shared by every extraction; a fresh one is used when nil
	Normalizer *normalize.Normalizer
	// ExtractionLLM overrides the chat client used for extraction
	ExtractionLLM nlp.Client
}

// IndexResult describes one indexed chunk.
type IndexResult struct {
	ChunkID   string         `json:"chunk_id"`
	DocID     string         `json:"doc_id"`
	Entities  []types.Entity `json:"entities"`
	Relations int            `json:"relations"`
}

// NewClient creates a new GraphRAG client with the provided collaborators.
func NewClient(graph driver.GraphStore, vectors vectorstore.Store, llmClient nlp.Client, embedderClient embedder.Client, config *Config, logger *slog.Logger) (*Client, error) {
	if graph == nil || vectors == nil || llmClient == nil || embedderClient == nil {
		return nil, errors.New("graph store, vector store, llm and embedder are required")
	}
	if config == nil {
		config = &Config{}
	}
	if config.SummaryDir == "" {
		config.SummaryDir = DefaultSummaryDir
	}
	if logger == nil {
		logger = slog.Default()
	}

	summaries := config.Summaries
	if summaries == nil {
		summaries = community.NewFileSummaryStore(config.SummaryDir)
	}

	extractionLLM := config.ExtractionLLM
	if extractionLLM == nil {
		extractionLLM = llmClient
	}

	builder := community.NewBuilder(graph, llmClient, summaries, logger).
		WithConcurrency(config.MaxConcurrency).
		WithMaxPasses(config.MaxPasses)

	return &Client{
		graph:     graph,
		vectors:   vectors,
		llm:       llmClient,
		embedder:  embedderClient,
		extractor: extract.NewExtractor(extractionLLM, config.Normalizer, logger),
		indexer:   index.NewIndexer(embedderClient, vectors, graph, logger),
		local:     search.NewLocalSearchEngine(embedderClient, vectors, graph, llmClient, logger),
		global:    search.NewGlobalSearchEngine(summaries, embedderClient, llmClient, logger),
		builder:   builder,
		summaries: summaries,
		config:    config,
		logger:    logger,
	}, nil
}

// GetGraph returns the underlying graph store
func (c *Client) GetGraph() driver.GraphStore {
	return c.graph
}

// GetLLM returns the LLM client
func (c *Client) GetLLM() nlp.Client {
	return c.llm
}

// GetEmbedder returns the embedder client
func (c *Client) GetEmbedder() embedder.Client {
	return c.embedder
}

// GetNormalizer returns the normalizer shared by extraction
func (c *Client) GetNormalizer() *normalize.Normalizer {
	return c.extractor.Normalizer()
}

// LocalSearch implements Searcher.
func (c *Client) LocalSearch(ctx context.Context, query string, topK int) (*types.LocalSearchResult, error) {
	return c.local.Search(ctx, query, topK)
}

// GlobalSearch implements Searcher.
func (c *Client) GlobalSearch(ctx context.Context, query string, topK int) (*types.GlobalSearchResult, error) {
	return c.global.Search(ctx, query, topK)
}

// IndexText extracts entities and relations from chunk, then indexes it.
func (c *Client) IndexText(ctx context.Context, chunk types.Chunk) (*IndexResult, error) {
	extraction, err := c.extractor.Extract(ctx, chunk.Text)
	if err != nil {
		return nil, err
	}
	return c.IndexExtracted(ctx, chunk, extraction)
}

// IndexExtracted stores chunk and the given extraction.
func (c *Client) IndexExtracted(ctx context.Context, chunk types.Chunk, extraction *types.ExtractionResult) (*IndexResult, error) {
	stored, err := c.indexer.IndexChunk(ctx, chunk, extraction)
	if err != nil {
		return nil, err
	}
	result := &IndexResult{ChunkID: stored.ChunkID, DocID: stored.DocID}
	if extraction != nil {
		result.Entities = extraction.Entities
		result.Relations = len(extraction.Relations)
	}
	c.logger.Info("Indexed chunk", "chunk_id", result.ChunkID, "entities", len(result.Entities), "relations", result.Relations)
	return result, nil
}

// BuildCommunities implements CommunityManager.
func (c *Client) BuildCommunities(ctx context.Context) (*community.BuildResult, error) {
	return c.builder.Build(ctx)
}

// Stats returns entity and relation counts.
func (c *Client) Stats(ctx context.Context) (*types.GraphStats, error) {
	return c.indexer.Stats(ctx)
}

// CreateIndices creates the graph indexes and the chunk table.
func (c *Client) CreateIndices(ctx context.Context) error {
	return c.indexer.EnsureSchema(ctx)
}

// CheckGraph implements HealthChecker.
func (c *Client) CheckGraph(ctx context.Context) error {
	return c.graph.VerifyConnectivity(ctx)
}

// CheckVectors implements HealthChecker.
func (c *Client) CheckVectors(ctx context.Context) error {
	return c.vectors.Ping(ctx)
}

// Close releases the stores and model clients.
func (c *Client) Close(ctx context.Context) error {
	c.vectors.Close()

	var errs []error
	if err := c.graph.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close graph store: %w", err))
	}
	if err := c.llm.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close llm: %w", err))
	}
	if err := c.embedder.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close embedder: %w", err))
	}
	return errors.Join(errs...)
}

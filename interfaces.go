package graphrag

import (
	"context"

	"github.com/soundprediction/graphrag/pkg/community"
	"github.com/soundprediction/graphrag/pkg/types"
)

// Consumers should depend on the smallest interface that meets their needs.

// Searcher answers questions over the indexed corpus.
type Searcher interface {
	// LocalSearch answers from the nearest chunks and their two-hop graph neighbourhood.
	LocalSearch(ctx context.Context, query string, topK int) (*types.LocalSearchResult, error)

	// GlobalSearch answers from the topK most relevant community summaries.
	GlobalSearch(ctx context.Context, query string, topK int) (*types.GlobalSearchResult, error)
}

// CorpusIndexer adds text to the vector and graph stores.
type CorpusIndexer interface {
	// IndexText extracts entities from chunk and indexes both.
	IndexText(ctx context.Context, chunk types.Chunk) (*IndexResult, error)

	// IndexExtracted indexes a chunk whose extraction was done elsewhere.
	IndexExtracted(ctx context.Context, chunk types.Chunk, extraction *types.ExtractionResult) (*IndexResult, error)
}

// CommunityManager rebuilds communities and their summaries.
type CommunityManager interface {
	BuildCommunities(ctx context.Context) (*community.BuildResult, error)
}

// StatsProvider reports graph size.
type StatsProvider interface {
	Stats(ctx context.Context) (*types.GraphStats, error)
}

// HealthChecker probes the backing stores.
type HealthChecker interface {
	// CheckGraph verifies the graph store can be reached.
	CheckGraph(ctx context.Context) error

	// CheckVectors verifies the vector store can be reached.
	CheckVectors(ctx context.Context) error
}

// GraphRAG is the full client surface.
type GraphRAG interface {
	Searcher
	CorpusIndexer
	CommunityManager
	HealthChecker
	StatsProvider

	// CreateIndices creates the graph indexes and the chunk table.
	CreateIndices(ctx context.Context) error

	// Close releases every collaborator.
	Close(ctx context.Context) error
}

var _ GraphRAG = (*Client)(nil)

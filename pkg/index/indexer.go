// Package index writes extracted chunks into the vector and graph stores.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/soundprediction/graphrag/pkg/driver"
	"github.com/soundprediction/graphrag/pkg/embedder"
	"github.com/soundprediction/graphrag/pkg/types"
	"github.com/soundprediction/graphrag/pkg/vectorstore"
)

// GraphWriter is the graph store surface the indexer needs.
type GraphWriter interface {
	driver.EntityWriter
	driver.StatsReader
	CreateIndices(ctx context.Context) error
}

// SchemaEnsurer is implemented by vector stores that manage their own schema.
type SchemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

// Indexer stores chunks with their embeddings and extracted graph facts.
type Indexer struct {
	embedder embedder.Client
	vectors  vectorstore.Store
	graph    GraphWriter
	logger   *slog.Logger
}

// NewIndexer creates an indexer.
func NewIndexer(embedderClient embedder.Client, vectors vectorstore.Store, graph GraphWriter, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{
		embedder: embedderClient,
		vectors:  vectors,
		graph:    graph,
		logger:   logger,
	}
}

// EnsureSchema creates the graph indexes and, when supported, the chunk table.
func (i *Indexer) EnsureSchema(ctx context.Context) error {
	if err := i.graph.CreateIndices(ctx); err != nil {
		return fmt.Errorf("failed to create graph indices: %w", err)
	}
	if s, ok := i.vectors.(SchemaEnsurer); ok {
		if err := s.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to create chunk schema: %w", err)
		}
	}
	return nil
}

// IndexChunk embeds chunk, stores it with the extracted entity ids and
// upserts the extracted entities and relations. A missing chunk id is
// generated. The returned chunk carries the id that was stored.
func (i *Indexer) IndexChunk(ctx context.Context, chunk types.Chunk, extraction *types.ExtractionResult) (*types.Chunk, error) {
	if strings.TrimSpace(chunk.Text) == "" {
		return nil, fmt.Errorf("chunk text cannot be empty")
	}
	if chunk.ChunkID == "" {
		chunk.ChunkID = uuid.NewString()
	}
	if extraction == nil {
		extraction = &types.ExtractionResult{}
	}

	embedding, err := i.embedder.EmbedSingle(ctx, chunk.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed chunk %s: %w", chunk.ChunkID, err)
	}

	entityIDs := make([]string, 0, len(extraction.Entities))
	for _, id := range extraction.EntityIDs() {
		if id != "" {
			entityIDs = append(entityIDs, id)
		}
	}
	if err := i.vectors.UpsertChunk(ctx, chunk, embedding, entityIDs); err != nil {
		return nil, fmt.Errorf("failed to store chunk %s: %w", chunk.ChunkID, err)
	}

	for _, entity := range extraction.Entities {
		if err := entity.Validate(); err != nil {
			i.logger.Warn("Skipping invalid entity", "chunk_id", chunk.ChunkID, "error", err)
			continue
		}
		if err := i.graph.UpsertEntity(ctx, entity); err != nil {
			return nil, fmt.Errorf("failed to store entity %s: %w", entity.ID, err)
		}
	}
	for _, relation := range extraction.Relations {
		if err := relation.Validate(); err != nil {
			i.logger.Warn("Skipping invalid relation", "chunk_id", chunk.ChunkID, "error", err)
			continue
		}
		if err := i.graph.UpsertRelation(ctx, relation); err != nil {
			return nil, fmt.Errorf("failed to store relation %s -> %s: %w", relation.Source, relation.Target, err)
		}
	}

	i.logger.Debug("Indexed chunk",
		"chunk_id", chunk.ChunkID,
		"entities", len(extraction.Entities),
		"relations", len(extraction.Relations))
	return &chunk, nil
}

// Stats returns the entity and relation counts of the graph.
func (i *Indexer) Stats(ctx context.Context) (*types.GraphStats, error) {
	entities, err := i.graph.CountEntities(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count entities: %w", err)
	}
	relations, err := i.graph.CountRelations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count relations: %w", err)
	}
	return &types.GraphStats{Entities: entities, Relations: relations}, nil
}

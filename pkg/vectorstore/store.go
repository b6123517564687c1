// Package vectorstore holds embedded text chunks and answers nearest-neighbour
// queries for local search.
//
// Every stored chunk carries the comma-joined list of entity ids that were
// extracted from it, so search hits can seed graph expansion.
package vectorstore

import (
	"context"
	"strings"

	"github.com/soundprediction/graphrag/pkg/types"
)

// Store is a vector index over text chunks.
type Store interface {
	// SimilaritySearch returns the k chunks closest to embedding, best first.
	SimilaritySearch(ctx context.Context, embedding []float32, k int) ([]types.ScoredChunk, error)

	// UpsertChunk stores a chunk, its embedding and its entity ids.
	UpsertChunk(ctx context.Context, chunk types.Chunk, embedding []float32, entityIDs []string) error

	// Ping checks that the store can be reached.
	Ping(ctx context.Context) error

	// Close releases held connections.
	Close()
}

// JoinEntityIDs serializes entity ids into the chunk payload format.
func JoinEntityIDs(ids []string) string {
	return strings.Join(ids, ",")
}

// ParseEntityIDs splits a serialized entity id list, trimming entries and
// dropping empty ones.
func ParseEntityIDs(serialized string) []string {
	if serialized == "" {
		return nil
	}
	parts := strings.Split(serialized, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ids = append(ids, p)
	}
	return ids
}

package community

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soundprediction/graphrag/pkg/driver"
	"github.com/soundprediction/graphrag/pkg/types"
)

const (
	// MaxCommunityRelations bounds the relations fetched per community for summarization.
	MaxCommunityRelations = 20
)

// Exporter reads the entity graph out of the graph store.
type Exporter struct {
	reader driver.GraphReader
	logger *slog.Logger
}

// NewExporter creates an exporter over reader.
func NewExporter(reader driver.GraphReader, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{reader: reader, logger: logger}
}

// ExportGraph builds a fresh snapshot from every stored relation. Entities
// are indexed in the order their first relation is returned; entities
// without relations are not part of the snapshot.
func (e *Exporter) ExportGraph(ctx context.Context) (*types.GraphData, error) {
	relations, err := e.reader.AllRelations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to export relations: %w", err)
	}

	graph := types.NewGraphData()
	for _, r := range relations {
		graph.AddEdge(r.Source, r.Target)
	}

	e.logger.Info("Exported graph", "num_entities", graph.NumEntities(), "num_edges", len(graph.Edges))
	return graph, nil
}

// CommunityEntities returns the stored details of the given entities.
func (e *Exporter) CommunityEntities(ctx context.Context, ids []string) ([]types.EntityDetail, error) {
	entities, err := e.reader.EntityDetails(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch community entities: %w", err)
	}
	return entities, nil
}

// CommunityRelations returns up to MaxCommunityRelations relations between
// the given entities.
func (e *Exporter) CommunityRelations(ctx context.Context, ids []string) ([]types.RelationDetail, error) {
	relations, err := e.reader.RelationsWithin(ctx, ids, MaxCommunityRelations)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch community relations: %w", err)
	}
	return relations, nil
}

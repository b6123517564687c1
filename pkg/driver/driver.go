package driver

import (
	"context"

	"github.com/soundprediction/graphrag/pkg/types"
)

// Consumers should depend on the smallest interface that meets their needs.

// EntityWriter stores extracted entities and relations.
type EntityWriter interface {
	// UpsertEntity creates the entity or overwrites its name, type and description.
	UpsertEntity(ctx context.Context, entity types.Entity) error

	// UpsertRelation creates the relation, auto-creating missing endpoints
	// as UNKNOWN placeholders.
	UpsertRelation(ctx context.Context, relation types.Relation) error
}

// GraphReader reads the entity graph.
type GraphReader interface {
	// AllRelations returns the endpoints of every stored relation.
	AllRelations(ctx context.Context) ([]types.RelationEndpoints, error)

	// EntityDetails returns the stored entities among ids, in the order of ids.
	EntityDetails(ctx context.Context, ids []string) ([]types.EntityDetail, error)

	// RelationsWithin returns up to limit relations whose endpoints are both in ids.
	RelationsWithin(ctx context.Context, ids []string, limit int) ([]types.RelationDetail, error)

	// Neighbors returns the distinct ids adjacent to any of ids, in either direction.
	Neighbors(ctx context.Context, ids []string) ([]string, error)
}

// CommunityWriter persists community assignments.
type CommunityWriter interface {
	// SetCommunity stores the community id of one entity.
	SetCommunity(ctx context.Context, entityID string, communityID int) error
}

// StatsReader reports graph size.
type StatsReader interface {
	CountEntities(ctx context.Context) (int64, error)
	CountRelations(ctx context.Context) (int64, error)
}

// GraphStore is the full graph store surface.
type GraphStore interface {
	EntityWriter
	GraphReader
	CommunityWriter
	StatsReader

	// CreateIndices creates the indexes used for entity lookups.
	CreateIndices(ctx context.Context) error

	// VerifyConnectivity checks that the store can be reached.
	VerifyConnectivity(ctx context.Context) error

	// Close releases all resources held by the driver.
	Close() error
}

var _ GraphStore = (*Neo4jDriver)(nil)

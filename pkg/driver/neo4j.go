package driver

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/soundprediction/graphrag/pkg/types"
)

const serviceName = "neo4j"

// Neo4jDriver implements GraphStore for Neo4j databases.
type Neo4jDriver struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jDriver creates a new Neo4j driver instance.
func NewNeo4jDriver(uri, username, password, database string) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jDriver{
		client:   driver,
		database: database,
	}, nil
}

// UpsertEntity creates or updates an entity node keyed by its id.
func (n *Neo4jDriver) UpsertEntity(ctx context.Context, entity types.Entity) error {
	if err := entity.Validate(); err != nil {
		return err
	}

	query := `
		MERGE (e:Entity {id: $id})
		SET e.name = $name,
		    e.type = $type,
		    e.description = $description
	`
	return n.write(ctx, "upsert entity", query, map[string]any{
		"id":          entity.ID,
		"name":        entity.Name,
		"type":        string(entity.Type),
		"description": entity.Description,
	})
}

// UpsertRelation creates or updates a relation. Unknown endpoints are
// created as placeholders first so the relation always has both ends.
func (n *Neo4jDriver) UpsertRelation(ctx context.Context, relation types.Relation) error {
	if err := relation.Validate(); err != nil {
		return err
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		ensure := `
			MERGE (s:Entity {id: $source})
			ON CREATE SET s.name = $source, s.type = $unknown, s.description = 'Auto-created'
			MERGE (t:Entity {id: $target})
			ON CREATE SET t.name = $target, t.type = $unknown, t.description = 'Auto-created'
		`
		if _, err := tx.Run(ctx, ensure, map[string]any{
			"source":  relation.Source,
			"target":  relation.Target,
			"unknown": string(types.EntityTypeUnknown),
		}); err != nil {
			return nil, err
		}

		merge := `
			MATCH (s:Entity {id: $source})
			MATCH (t:Entity {id: $target})
			MERGE (s)-[r:RELATION {type: $relation}]->(t)
			SET r.evidence = $evidence
		`
		_, err := tx.Run(ctx, merge, map[string]any{
			"source":   relation.Source,
			"target":   relation.Target,
			"relation": relation.Relation,
			"evidence": relation.Evidence,
		})
		return nil, err
	})
	if err != nil {
		return n.wrapError("upsert relation", err)
	}
	return nil
}

// AllRelations returns the endpoints of every relation in the graph.
func (n *Neo4jDriver) AllRelations(ctx context.Context) ([]types.RelationEndpoints, error) {
	query := `
		MATCH (s:Entity)-[r:RELATION]->(t:Entity)
		RETURN s.id AS source, t.id AS target
	`
	records, err := n.read(ctx, "all relations", query, nil)
	if err != nil {
		return nil, err
	}
	return parseRelationEndpoints(records)
}

// EntityDetails returns entity details in the order of ids. Ids without a
// stored entity are skipped.
func (n *Neo4jDriver) EntityDetails(ctx context.Context, ids []string) ([]types.EntityDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		UNWIND range(0, size($ids) - 1) AS idx
		MATCH (e:Entity {id: $ids[idx]})
		RETURN e.id AS id, e.name AS name, e.type AS type, e.description AS description
		ORDER BY idx
	`
	records, err := n.read(ctx, "entity details", query, map[string]any{"ids": ids})
	if err != nil {
		return nil, err
	}
	return parseEntityDetails(records)
}

// RelationsWithin returns up to limit relations with both endpoints in ids.
func (n *Neo4jDriver) RelationsWithin(ctx context.Context, ids []string, limit int) ([]types.RelationDetail, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		return nil, types.ErrInvalidLimit
	}

	query := `
		MATCH (s:Entity)-[r:RELATION]->(t:Entity)
		WHERE s.id IN $ids AND t.id IN $ids
		RETURN s.id AS source, r.type AS relation, t.id AS target, r.evidence AS evidence
		LIMIT $limit
	`
	records, err := n.read(ctx, "relations within", query, map[string]any{
		"ids":   ids,
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}
	return parseRelationDetails(records)
}

// Neighbors returns the distinct neighbors of ids through relations of
// either direction.
func (n *Neo4jDriver) Neighbors(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `
		MATCH (e:Entity)-[:RELATION]-(neighbor:Entity)
		WHERE e.id IN $ids
		RETURN DISTINCT neighbor.id AS neighbor_id
	`
	records, err := n.read(ctx, "neighbors", query, map[string]any{"ids": ids})
	if err != nil {
		return nil, err
	}
	return parseStrings(records, "neighbor_id")
}

// SetCommunity stores the community id on an entity node.
func (n *Neo4jDriver) SetCommunity(ctx context.Context, entityID string, communityID int) error {
	query := `
		MATCH (e:Entity {id: $id})
		SET e.community_id = $community_id
	`
	return n.write(ctx, "set community", query, map[string]any{
		"id":           entityID,
		"community_id": communityID,
	})
}

// CountEntities returns the number of entity nodes.
func (n *Neo4jDriver) CountEntities(ctx context.Context) (int64, error) {
	records, err := n.read(ctx, "count entities", "MATCH (e:Entity) RETURN count(e) AS count", nil)
	if err != nil {
		return 0, err
	}
	return parseCount(records)
}

// CountRelations returns the number of relations.
func (n *Neo4jDriver) CountRelations(ctx context.Context) (int64, error) {
	records, err := n.read(ctx, "count relations", "MATCH ()-[r:RELATION]->() RETURN count(r) AS count", nil)
	if err != nil {
		return 0, err
	}
	return parseCount(records)
}

// CreateIndices creates the lookup indexes on Entity.id and Entity.name.
func (n *Neo4jDriver) CreateIndices(ctx context.Context) error {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	indices := []string{
		"CREATE INDEX entity_id IF NOT EXISTS FOR (e:Entity) ON (e.id)",
		"CREATE INDEX entity_name IF NOT EXISTS FOR (e:Entity) ON (e.name)",
	}

	for _, indexQuery := range indices {
		_, err := session.Run(ctx, indexQuery, nil)
		if err != nil {
			if !strings.Contains(err.Error(), "already exists") && !strings.Contains(err.Error(), "An equivalent") {
				return n.wrapError("create indices", err)
			}
		}
	}

	return nil
}

// Close closes the Neo4j driver.
func (n *Neo4jDriver) Close() error {
	return n.client.Close(context.Background())
}

// VerifyConnectivity checks if the driver can connect to the database.
func (n *Neo4jDriver) VerifyConnectivity(ctx context.Context) error {
	if err := n.client.VerifyConnectivity(ctx); err != nil {
		return types.NewUnavailableError(serviceName, "verify connectivity", err)
	}
	return nil
}

func (n *Neo4jDriver) read(ctx context.Context, op, query string, params map[string]any) ([]*neo4j.Record, error) {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, n.wrapError(op, err)
	}

	records, ok := AsRecordSlice(result)
	if !ok {
		return nil, types.NewMalformedDataError(serviceName, op, fmt.Sprintf("unexpected result type %T", result))
	}
	return records, nil
}

func (n *Neo4jDriver) write(ctx context.Context, op, query string, params map[string]any) error {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return n.wrapError(op, err)
	}
	return nil
}

func (n *Neo4jDriver) wrapError(op string, err error) error {
	if neo4j.IsConnectivityError(err) {
		return types.NewUnavailableError(serviceName, op, err)
	}
	return fmt.Errorf("neo4j %s failed: %w", op, err)
}

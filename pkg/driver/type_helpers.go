package driver

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/soundprediction/graphrag/pkg/types"
)

// AsRecordSlice safely converts an interface{} to []*db.Record.
// Returns the slice and true if successful, nil and false otherwise.
func AsRecordSlice(v any) ([]*db.Record, bool) {
	if v == nil {
		return nil, true
	}
	records, ok := v.([]*db.Record)
	return records, ok
}

// requiredString reads a non-null string column.
func requiredString(record *db.Record, key string) (string, error) {
	v, found := record.Get(key)
	if !found || v == nil {
		return "", types.NewMalformedDataError(serviceName, key, "missing")
	}
	s, ok := v.(string)
	if !ok {
		return "", types.NewMalformedDataError(serviceName, key, fmt.Sprintf("expected string, got %T", v))
	}
	return s, nil
}

// optionalString reads a string column, returning fallback when it is null.
func optionalString(record *db.Record, key, fallback string) (string, error) {
	v, found := record.Get(key)
	if !found || v == nil {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", types.NewMalformedDataError(serviceName, key, fmt.Sprintf("expected string, got %T", v))
	}
	return s, nil
}

func parseRelationEndpoints(records []*db.Record) ([]types.RelationEndpoints, error) {
	out := make([]types.RelationEndpoints, 0, len(records))
	for _, record := range records {
		source, err := requiredString(record, "source")
		if err != nil {
			return nil, err
		}
		target, err := requiredString(record, "target")
		if err != nil {
			return nil, err
		}
		out = append(out, types.RelationEndpoints{Source: source, Target: target})
	}
	return out, nil
}

func parseEntityDetails(records []*db.Record) ([]types.EntityDetail, error) {
	out := make([]types.EntityDetail, 0, len(records))
	for _, record := range records {
		id, err := requiredString(record, "id")
		if err != nil {
			return nil, err
		}
		name, err := requiredString(record, "name")
		if err != nil {
			return nil, err
		}
		entityType, err := optionalString(record, "type", string(types.EntityTypeUnknown))
		if err != nil {
			return nil, err
		}
		description, err := optionalString(record, "description", "")
		if err != nil {
			return nil, err
		}
		out = append(out, types.EntityDetail{
			ID:          id,
			Name:        name,
			Type:        entityType,
			Description: description,
		})
	}
	return out, nil
}

func parseRelationDetails(records []*db.Record) ([]types.RelationDetail, error) {
	out := make([]types.RelationDetail, 0, len(records))
	for _, record := range records {
		source, err := requiredString(record, "source")
		if err != nil {
			return nil, err
		}
		relation, err := requiredString(record, "relation")
		if err != nil {
			return nil, err
		}
		target, err := requiredString(record, "target")
		if err != nil {
			return nil, err
		}
		evidence, err := optionalString(record, "evidence", "")
		if err != nil {
			return nil, err
		}
		out = append(out, types.RelationDetail{
			Source:   source,
			Relation: relation,
			Target:   target,
			Evidence: evidence,
		})
	}
	return out, nil
}

func parseStrings(records []*db.Record, key string) ([]string, error) {
	out := make([]string, 0, len(records))
	for _, record := range records {
		s, err := requiredString(record, key)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func parseCount(records []*db.Record) (int64, error) {
	if len(records) == 0 {
		return 0, types.NewMalformedDataError(serviceName, "count", "no rows")
	}
	v, found := records[0].Get("count")
	if !found || v == nil {
		return 0, types.NewMalformedDataError(serviceName, "count", "missing")
	}
	count, ok := v.(int64)
	if !ok {
		return 0, types.NewMalformedDataError(serviceName, "count", fmt.Sprintf("expected int64, got %T", v))
	}
	return count, nil
}

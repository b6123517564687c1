package types

import "strings"

// EntityType is the closed set of entity categories produced by extraction.
type EntityType string

const (
	EntityTypePerson       EntityType = "PERSON"
	EntityTypeOrganization EntityType = "ORGANIZATION"
	EntityTypeConcept      EntityType = "CONCEPT"
	EntityTypeTechnology   EntityType = "TECHNOLOGY"
	EntityTypeLocation     EntityType = "LOCATION"
	EntityTypeEvent        EntityType = "EVENT"

	// EntityTypeUnknown marks placeholder entities auto-created for relation endpoints.
	EntityTypeUnknown EntityType = "UNKNOWN"
)

// EntityTypes lists the types an extractor may assign.
var EntityTypes = []EntityType{
	EntityTypePerson,
	EntityTypeOrganization,
	EntityTypeConcept,
	EntityTypeTechnology,
	EntityTypeLocation,
	EntityTypeEvent,
}

// ParseEntityType maps a free-form type label onto the closed set.
// The second return value is false when the label is not recognized.
func ParseEntityType(s string) (EntityType, bool) {
	t := EntityType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case EntityTypePerson, EntityTypeOrganization, EntityTypeConcept,
		EntityTypeTechnology, EntityTypeLocation, EntityTypeEvent, EntityTypeUnknown:
		return t, true
	}
	return "", false
}

// Entity is a node of the knowledge graph.
type Entity struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Type        EntityType `json:"type"`
	Description string     `json:"description"`
}

// Validate checks that the entity can be stored.
func (e *Entity) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if e.Name == "" {
		return ErrEmptyName
	}
	return nil
}

// Relation is a directed, labelled edge between two entities.
type Relation struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
	Evidence string `json:"evidence"`
}

// Validate checks that both endpoints are set.
func (r *Relation) Validate() error {
	if r.Source == "" || r.Target == "" {
		return ErrEmptyID
	}
	return nil
}

// EntityDetail is the read model of an entity returned by the graph store.
type EntityDetail struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// RelationDetail is the read model of a relation returned by the graph store.
type RelationDetail struct {
	Source   string `json:"source"`
	Relation string `json:"relation"`
	Target   string `json:"target"`
	Evidence string `json:"evidence"`
}

// RelationEndpoints is a (source, target) pair from a full relation scan.
type RelationEndpoints struct {
	Source string
	Target string
}

// ExtractionResult holds the entities and relations extracted from one text.
type ExtractionResult struct {
	Entities  []Entity   `json:"entities"`
	Relations []Relation `json:"relations"`
}

// EntityIDs returns the entity ids in extraction order.
func (r *ExtractionResult) EntityIDs() []string {
	ids := make([]string, 0, len(r.Entities))
	for _, e := range r.Entities {
		ids = append(ids, e.ID)
	}
	return ids
}

// ExtractedChunk ties an extraction result to the chunk it came from.
type ExtractedChunk struct {
	ChunkID    string           `json:"chunk_id"`
	DocID      string           `json:"doc_id"`
	Extraction ExtractionResult `json:"extraction"`
}

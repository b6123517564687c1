// Package types defines the core data types for the graphrag knowledge graph.
//
// This package contains the fundamental types used throughout graphrag:
//   - Entity / Relation: the extracted knowledge graph records
//   - GraphData: an in-memory export snapshot used for community detection
//   - CommunitySummary: the persisted summary of one detected community
//   - Chunk / ScoredChunk: indexed text fragments and vector search hits
//   - LocalSearchResult / GlobalSearchResult: query results with their traces
//
// # Entity Types
//
// Entity types form a closed set:
//   - EntityTypePerson, EntityTypeOrganization, EntityTypeConcept
//   - EntityTypeTechnology, EntityTypeLocation, EntityTypeEvent
//
// EntityTypeUnknown is reserved for placeholder entities created when a
// relation references an endpoint that has not been stored yet.
//
// # Errors
//
// Errors coming from collaborators are reported with two typed errors that
// work with errors.Is:
//
//	if errors.Is(err, types.ErrUnavailable) {
//	    // graph store, vector store or LLM could not be reached
//	}
//	if errors.Is(err, types.ErrMalformedData) {
//	    // a store response was missing an expected field
//	}
package types

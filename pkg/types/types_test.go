package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestEntityValidation(t *testing.T) {
	tests := []struct {
		name    string
		entity  Entity
		wantErr error
	}{
		{
			name:    "valid entity",
			entity:  Entity{ID: "openai", Name: "openai", Type: EntityTypeOrganization},
			wantErr: nil,
		},
		{
			name:    "empty id",
			entity:  Entity{Name: "openai"},
			wantErr: ErrEmptyID,
		},
		{
			name:    "empty name",
			entity:  Entity{ID: "openai"},
			wantErr: ErrEmptyName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entity.Validate()
			if err != tt.wantErr {
				t.Errorf("Entity.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseEntityType(t *testing.T) {
	tests := []struct {
		in     string
		want   EntityType
		wantOK bool
	}{
		{"PERSON", EntityTypePerson, true},
		{" technology ", EntityTypeTechnology, true},
		{"Event", EntityTypeEvent, true},
		{"UNKNOWN", EntityTypeUnknown, true},
		{"PRODUCT", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseEntityType(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseEntityType(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestGraphDataIndexing(t *testing.T) {
	g := NewGraphData()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("a", "c")

	if g.NumEntities() != 3 {
		t.Fatalf("expected 3 entities, got %d", g.NumEntities())
	}
	for i, id := range g.Entities {
		if g.IndexOf[id] != i {
			t.Errorf("IndexOf[%q] = %d, want %d", id, g.IndexOf[id], i)
		}
	}
	for _, e := range g.Edges {
		if e.Source < 0 || e.Source >= len(g.Entities) || e.Target < 0 || e.Target >= len(g.Entities) {
			t.Errorf("edge %+v references an invalid index", e)
		}
	}
	if idx := g.AddEntity("b"); idx != 1 {
		t.Errorf("re-adding an entity should return its index, got %d", idx)
	}
}

func TestGraphDataIsEmpty(t *testing.T) {
	var nilGraph *GraphData
	if !nilGraph.IsEmpty() {
		t.Error("nil graph should be empty")
	}
	if !NewGraphData().IsEmpty() {
		t.Error("new graph should be empty")
	}
}

func TestCommunityAssignmentMembers(t *testing.T) {
	a := CommunityAssignment{"a": 0, "b": 1, "c": 0}
	members := a.Members([]string{"a", "b", "c", "d"})

	if got := len(members[0]); got != 2 {
		t.Errorf("community 0 should have 2 members, got %d", got)
	}
	if members[0][0] != "a" || members[0][1] != "c" {
		t.Errorf("members should follow input order, got %v", members[0])
	}
	if a.NumCommunities() != 2 {
		t.Errorf("expected 2 communities, got %d", a.NumCommunities())
	}
}

func TestCollaboratorErrors(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := fmt.Errorf("failed to search: %w", NewUnavailableError("neo4j", "neighbors", cause))

	if !errors.Is(wrapped, ErrUnavailable) {
		t.Error("wrapped UnavailableError should match ErrUnavailable")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("UnavailableError should unwrap to its cause")
	}
	if errors.Is(wrapped, ErrMalformedData) {
		t.Error("UnavailableError should not match ErrMalformedData")
	}

	malformed := fmt.Errorf("failed to export: %w", NewMalformedDataError("neo4j", "source", "missing"))
	if !errors.Is(malformed, ErrMalformedData) {
		t.Error("wrapped MalformedDataError should match ErrMalformedData")
	}
	var target *MalformedDataError
	if !errors.As(malformed, &target) || target.Field != "source" {
		t.Errorf("errors.As should recover the field, got %+v", target)
	}
}

package types

// Edge is a directed edge between two dense node indices of a GraphData.
type Edge struct {
	Source int
	Target int
}

// GraphData is an in-memory snapshot of the entity graph.
//
// Entities holds identifiers in insertion order; IndexOf maps each identifier
// back to its position. Every edge references valid positions.
type GraphData struct {
	Entities []string
	Edges    []Edge
	IndexOf  map[string]int
}

// NewGraphData returns an empty snapshot.
func NewGraphData() *GraphData {
	return &GraphData{
		IndexOf: make(map[string]int),
	}
}

// AddEntity registers id if it is new and returns its index.
func (g *GraphData) AddEntity(id string) int {
	if idx, ok := g.IndexOf[id]; ok {
		return idx
	}
	idx := len(g.Entities)
	g.Entities = append(g.Entities, id)
	g.IndexOf[id] = idx
	return idx
}

// AddEdge adds a directed edge, registering unknown endpoints first.
func (g *GraphData) AddEdge(source, target string) {
	s := g.AddEntity(source)
	t := g.AddEntity(target)
	g.Edges = append(g.Edges, Edge{Source: s, Target: t})
}

// NumEntities returns the number of entities in the snapshot.
func (g *GraphData) NumEntities() int {
	return len(g.Entities)
}

// IsEmpty reports whether the snapshot has no entities.
func (g *GraphData) IsEmpty() bool {
	return g == nil || len(g.Entities) == 0
}

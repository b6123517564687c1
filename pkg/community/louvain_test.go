package community

import (
	"context"
	"errors"
	"testing"

	"github.com/soundprediction/graphrag/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphOf(n int, pairs ...[2]int) *types.GraphData {
	g := types.NewGraphData()
	for i := 0; i < n; i++ {
		g.AddEntity(string(rune('a' + i)))
	}
	for _, p := range pairs {
		g.Edges = append(g.Edges, types.Edge{Source: p[0], Target: p[1]})
	}
	return g
}

func TestDetector_Partition(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		edges [][2]int
		want  []int
	}{
		{
			name: "no edges keeps singletons",
			n:    3,
			want: []int{0, 1, 2},
		},
		{
			name:  "two disjoint pairs",
			n:     4,
			edges: [][2]int{{0, 1}, {2, 3}},
			want:  []int{0, 0, 1, 1},
		},
		{
			name:  "two disjoint triangles",
			n:     6,
			edges: [][2]int{{0, 1}, {1, 2}, {2, 0}, {3, 4}, {4, 5}, {5, 3}},
			want:  []int{0, 0, 0, 1, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graph := graphOf(tt.n, tt.edges...)
			assignment := NewDetector().Detect(graph)

			got := make([]int, tt.n)
			for idx, id := range graph.Entities {
				got[idx] = assignment[id]
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetector_NoEdgesRunsNoPasses(t *testing.T) {
	communities, passes := NewDetector().Partition(3, nil)
	assert.Equal(t, []int{0, 1, 2}, communities)
	assert.Equal(t, 0, passes)
}

func TestDetector_EmptyGraph(t *testing.T) {
	assert.Empty(t, NewDetector().Detect(types.NewGraphData()))
	assert.Empty(t, NewDetector().Detect(nil))
}

func TestDetector_PassCap(t *testing.T) {
	d := &Detector{MaxPasses: 1}
	_, passes := d.Partition(4, []types.Edge{{Source: 0, Target: 1}, {Source: 2, Target: 3}})
	assert.Equal(t, 1, passes)
}

func TestDetector_ContiguousAndDeterministic(t *testing.T) {
	edges := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 0}, {5, 6}, {6, 7}, {7, 5}, {2, 8}, {8, 9}}
	graph := graphOf(10, edges...)

	first := NewDetector().Detect(graph)
	second := NewDetector().Detect(graph)
	require.Equal(t, first, second)

	k := first.NumCommunities()
	require.Greater(t, k, 0)
	require.LessOrEqual(t, k, 10)
	seen := make(map[int]bool)
	for _, c := range first {
		assert.GreaterOrEqual(t, c, 0)
		assert.Less(t, c, k)
		seen[c] = true
	}
	assert.Len(t, seen, k)
}

func TestDetector_SelfLoop(t *testing.T) {
	graph := graphOf(2, [2]int{0, 0}, [2]int{0, 1})
	assignment := NewDetector().Detect(graph)
	assert.Len(t, assignment, 2)
}

func TestRenumber(t *testing.T) {
	assert.Equal(t, []int{1, 1, 0, 2}, renumber([]int{4, 4, 2, 9}))
	assert.Empty(t, renumber(nil))
}

func TestAssignCommunities(t *testing.T) {
	ctx := context.Background()

	t.Run("writes every entity", func(t *testing.T) {
		store := newFakeStore()
		graph := graphOf(4, [2]int{0, 1}, [2]int{2, 3})
		assignment := NewDetector().Detect(graph)

		require.NoError(t, AssignCommunities(ctx, store, graph, assignment))
		assert.Equal(t, map[string]int{"a": 0, "b": 0, "c": 1, "d": 1}, store.communities)
	})

	t.Run("empty graph writes nothing", func(t *testing.T) {
		store := newFakeStore()
		require.NoError(t, AssignCommunities(ctx, store, types.NewGraphData(), nil))
		assert.Empty(t, store.communities)
	})

	t.Run("write failure aborts", func(t *testing.T) {
		store := newFakeStore()
		store.writeErr = types.NewUnavailableError("neo4j", "set community", errors.New("down"))
		graph := graphOf(2, [2]int{0, 1})

		err := AssignCommunities(ctx, store, graph, NewDetector().Detect(graph))
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrUnavailable)
	})
}

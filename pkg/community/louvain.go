package community

import (
	"context"
	"fmt"
	"sort"

	"github.com/soundprediction/graphrag/pkg/driver"
	"github.com/soundprediction/graphrag/pkg/types"
)

// DefaultMaxPasses caps the number of local-move passes.
const DefaultMaxPasses = 10

// Detector partitions a graph with single-level Louvain.
//
// Nodes are visited in index order and moved to the neighbouring community
// with the largest strictly positive modularity gain. Equal gains go to the
// lowest community id. Final ids are renumbered 0..k-1 in ascending order of
// the pre-renumbering ids.
type Detector struct {
	MaxPasses int
}

// NewDetector returns a Detector with the default pass cap.
func NewDetector() *Detector {
	return &Detector{MaxPasses: DefaultMaxPasses}
}

// Detect assigns every entity of graph to a community.
func (d *Detector) Detect(graph *types.GraphData) types.CommunityAssignment {
	assignment := make(types.CommunityAssignment)
	if graph.IsEmpty() {
		return assignment
	}

	communities, _ := d.Partition(graph.NumEntities(), graph.Edges)
	for idx, c := range renumber(communities) {
		assignment[graph.Entities[idx]] = c
	}
	return assignment
}

// Partition runs the local-move phase over n nodes and returns the raw
// community of each node along with the number of passes made.
func (d *Detector) Partition(n int, edges []types.Edge) ([]int, int) {
	if n == 0 {
		return nil, 0
	}

	maxPasses := d.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	// Every directed edge adds weight 1 in both directions.
	adjacency := make([]map[int]float64, n)
	for i := range adjacency {
		adjacency[i] = make(map[int]float64)
	}
	var totalWeight float64
	for _, e := range edges {
		adjacency[e.Source][e.Target] += 1
		adjacency[e.Target][e.Source] += 1
		totalWeight += 2
	}
	m := totalWeight / 2

	degrees := make([]float64, n)
	for i, neighbors := range adjacency {
		for _, w := range neighbors {
			degrees[i] += w
		}
	}

	communities := make([]int, n)
	for i := range communities {
		communities[i] = i
	}
	if m == 0 {
		return communities, 0
	}

	passes := 0
	for passes < maxPasses {
		passes++
		moved := false

		for node := 0; node < n; node++ {
			current := communities[node]
			ki := degrees[node]

			links := make(map[int]float64)
			for neighbor, w := range adjacency[node] {
				links[communities[neighbor]] += w
			}

			candidates := make([]int, 0, len(links))
			for c := range links {
				if c != current {
					candidates = append(candidates, c)
				}
			}
			sort.Ints(candidates)

			kiFrom := links[current]
			sigmaFrom := communityDegree(communities, degrees, current)

			best, bestGain := current, 0.0
			for _, c := range candidates {
				sigmaTo := communityDegree(communities, degrees, c)
				gain := (links[c]-kiFrom)/(2*m) - ki*(sigmaTo-sigmaFrom+ki)/(2*m*m)
				if gain > bestGain {
					best, bestGain = c, gain
				}
			}

			if best != current {
				communities[node] = best
				moved = true
			}
		}

		if !moved {
			break
		}
	}

	return communities, passes
}

// communityDegree sums the degrees of all nodes currently in community c.
func communityDegree(communities []int, degrees []float64, c int) float64 {
	var sum float64
	for i, ci := range communities {
		if ci == c {
			sum += degrees[i]
		}
	}
	return sum
}

// renumber maps raw community ids to 0..k-1 in ascending raw-id order.
func renumber(communities []int) []int {
	distinct := make(map[int]struct{})
	for _, c := range communities {
		distinct[c] = struct{}{}
	}
	ids := make([]int, 0, len(distinct))
	for c := range distinct {
		ids = append(ids, c)
	}
	sort.Ints(ids)

	dense := make(map[int]int, len(ids))
	for i, c := range ids {
		dense[c] = i
	}

	out := make([]int, len(communities))
	for i, c := range communities {
		out[i] = dense[c]
	}
	return out
}

// AssignCommunities writes each entity's community id to the store, one
// write per entity in snapshot order. The writes are not transactional;
// rerunning detection overwrites them.
func AssignCommunities(ctx context.Context, writer driver.CommunityWriter, graph *types.GraphData, assignment types.CommunityAssignment) error {
	if graph.IsEmpty() {
		return nil
	}
	for _, id := range graph.Entities {
		c, ok := assignment[id]
		if !ok {
			continue
		}
		if err := writer.SetCommunity(ctx, id, c); err != nil {
			return fmt.Errorf("failed to assign community for %s: %w", id, err)
		}
	}
	return nil
}

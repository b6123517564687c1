package search

import (
	"context"
	"sync"

	"github.com/soundprediction/graphrag/pkg/types"
)

// mockEmbedder returns a fixed vector per text, or a default one
type mockEmbedder struct {
	vectors map[string][]float32
	dflt    []float32
	err     error
	calls   []string
}

func (m *mockEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := m.EmbedSingle(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (m *mockEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	m.calls = append(m.calls, text)
	if m.err != nil {
		return nil, m.err
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	if m.dflt != nil {
		return m.dflt, nil
	}
	return []float32{1, 0}, nil
}

func (m *mockEmbedder) Dimensions() int { return 2 }

func (m *mockEmbedder) Close() error { return nil }

// mockVectorStore returns canned chunks
type mockVectorStore struct {
	chunks []types.ScoredChunk
	err    error
	lastK  int
}

func (m *mockVectorStore) SimilaritySearch(ctx context.Context, embedding []float32, k int) ([]types.ScoredChunk, error) {
	m.lastK = k
	if m.err != nil {
		return nil, m.err
	}
	if k < len(m.chunks) {
		return m.chunks[:k], nil
	}
	return m.chunks, nil
}

func (m *mockVectorStore) UpsertChunk(ctx context.Context, chunk types.Chunk, embedding []float32, entityIDs []string) error {
	return nil
}

func (m *mockVectorStore) Ping(ctx context.Context) error { return nil }

func (m *mockVectorStore) Close() {}

// mockGraph is an undirected adjacency list with entity details
type mockGraph struct {
	adjacency     map[string][]string
	entities      map[string]types.EntityDetail
	relations     []types.RelationDetail
	neighborsErr  error
	neighborCalls [][]string
	detailCalls   int
}

func newMockGraph() *mockGraph {
	return &mockGraph{
		adjacency: make(map[string][]string),
		entities:  make(map[string]types.EntityDetail),
	}
}

func (g *mockGraph) link(source, target string) {
	g.adjacency[source] = append(g.adjacency[source], target)
	g.adjacency[target] = append(g.adjacency[target], source)
	for _, id := range []string{source, target} {
		if _, ok := g.entities[id]; !ok {
			g.entities[id] = types.EntityDetail{ID: id, Name: id, Type: "CONCEPT", Description: "about " + id}
		}
	}
	g.relations = append(g.relations, types.RelationDetail{Source: source, Relation: "links", Target: target, Evidence: source + "-" + target})
}

func (g *mockGraph) AllRelations(ctx context.Context) ([]types.RelationEndpoints, error) {
	return nil, nil
}

func (g *mockGraph) EntityDetails(ctx context.Context, ids []string) ([]types.EntityDetail, error) {
	g.detailCalls++
	var out []types.EntityDetail
	for _, id := range ids {
		if e, ok := g.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (g *mockGraph) RelationsWithin(ctx context.Context, ids []string, limit int) ([]types.RelationDetail, error) {
	in := make(map[string]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	var out []types.RelationDetail
	for _, r := range g.relations {
		if len(out) == limit {
			break
		}
		if in[r.Source] && in[r.Target] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (g *mockGraph) Neighbors(ctx context.Context, ids []string) ([]string, error) {
	g.neighborCalls = append(g.neighborCalls, append([]string(nil), ids...))
	if g.neighborsErr != nil {
		return nil, g.neighborsErr
	}
	seen := make(map[string]bool)
	var out []string
	for _, id := range ids {
		for _, n := range g.adjacency[id] {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out, nil
}

// mockLLM records prompts and replies with a fixed answer
type mockLLM struct {
	mu      sync.Mutex
	answer  string
	err     error
	prompts []string
}

func (m *mockLLM) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, msg := range messages {
		m.prompts = append(m.prompts, msg.Content)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &types.Response{Content: m.answer}, nil
}

func (m *mockLLM) ChatWithStructuredOutput(ctx context.Context, messages []types.Message, schema any) (*types.Response, error) {
	return m.Chat(ctx, messages)
}

func (m *mockLLM) Close() error { return nil }

// mockSummaries serves a fixed summary list
type mockSummaries struct {
	summaries []types.CommunitySummary
	err       error
}

func (m *mockSummaries) LoadAll(ctx context.Context) ([]types.CommunitySummary, error) {
	return m.summaries, m.err
}

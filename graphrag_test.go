package graphrag

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphrag/pkg/types"
)

type fakeGraph struct {
	mu        sync.Mutex
	entities  []types.Entity
	relations []types.Relation
	closeErr  error
	pingErr   error
	indexed   bool
}

func (g *fakeGraph) UpsertEntity(_ context.Context, e types.Entity) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entities = append(g.entities, e)
	return nil
}

func (g *fakeGraph) UpsertRelation(_ context.Context, r types.Relation) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.relations = append(g.relations, r)
	return nil
}

func (g *fakeGraph) AllRelations(context.Context) ([]types.RelationEndpoints, error) {
	return nil, nil
}

func (g *fakeGraph) EntityDetails(context.Context, []string) ([]types.EntityDetail, error) {
	return nil, nil
}

func (g *fakeGraph) RelationsWithin(context.Context, []string, int) ([]types.RelationDetail, error) {
	return nil, nil
}

func (g *fakeGraph) Neighbors(context.Context, []string) ([]string, error) {
	return nil, nil
}

func (g *fakeGraph) SetCommunity(context.Context, string, int) error { return nil }

func (g *fakeGraph) CountEntities(context.Context) (int64, error) {
	return int64(len(g.entities)), nil
}

func (g *fakeGraph) CountRelations(context.Context) (int64, error) {
	return int64(len(g.relations)), nil
}

func (g *fakeGraph) CreateIndices(context.Context) error {
	g.indexed = true
	return nil
}

func (g *fakeGraph) VerifyConnectivity(context.Context) error { return g.pingErr }

func (g *fakeGraph) Close() error { return g.closeErr }

type fakeVectors struct {
	chunks    []types.Chunk
	entityIDs [][]string
	closed    bool
}

func (v *fakeVectors) SimilaritySearch(context.Context, []float32, int) ([]types.ScoredChunk, error) {
	return nil, nil
}

func (v *fakeVectors) UpsertChunk(_ context.Context, chunk types.Chunk, _ []float32, ids []string) error {
	v.chunks = append(v.chunks, chunk)
	v.entityIDs = append(v.entityIDs, ids)
	return nil
}

func (v *fakeVectors) Ping(context.Context) error { return nil }

func (v *fakeVectors) Close() { v.closed = true }

type fakeLLM struct {
	extraction string
	answer     string
	chats      int
	closeErr   error
}

func (l *fakeLLM) Chat(context.Context, []types.Message) (*types.Response, error) {
	l.chats++
	return &types.Response{Content: l.answer}, nil
}

func (l *fakeLLM) ChatWithStructuredOutput(context.Context, []types.Message, any) (*types.Response, error) {
	return &types.Response{Content: l.extraction}, nil
}

func (l *fakeLLM) Close() error { return l.closeErr }

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (fakeEmbedder) EmbedSingle(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (fakeEmbedder) Dimensions() int { return 2 }

func (fakeEmbedder) Close() error { return nil }

type memorySummaries struct {
	summaries []types.CommunitySummary
}

func (m *memorySummaries) ReplaceAll(_ context.Context, s []types.CommunitySummary) error {
	m.summaries = s
	return nil
}

func (m *memorySummaries) LoadAll(context.Context) ([]types.CommunitySummary, error) {
	return m.summaries, nil
}

const extractionReply = `{
  "entities": [
    {"id": "E1", "name": "Ada Lovelace", "type": "PERSON", "description": "mathematician"},
    {"id": "E2", "name": "Analytical Engine", "type": "TECHNOLOGY", "description": "machine"}
  ],
  "relations": [
    {"source": "E1", "target": "E2", "relation": "programs", "evidence": "Ada wrote programs"}
  ]
}`

func newTestClient(t *testing.T) (*Client, *fakeGraph, *fakeVectors, *fakeLLM) {
	t.Helper()
	graph := &fakeGraph{}
	vectors := &fakeVectors{}
	llm := &fakeLLM{extraction: extractionReply, answer: "an answer"}
	client, err := NewClient(graph, vectors, llm, fakeEmbedder{}, &Config{Summaries: &memorySummaries{}}, nil)
	require.NoError(t, err)
	return client, graph, vectors, llm
}

func TestNewClientRequiresCollaborators(t *testing.T) {
	_, err := NewClient(nil, &fakeVectors{}, &fakeLLM{}, fakeEmbedder{}, nil, nil)
	assert.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(&fakeGraph{}, &fakeVectors{}, &fakeLLM{}, fakeEmbedder{}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSummaryDir, client.config.SummaryDir)
	assert.NotNil(t, client.GetNormalizer())
	assert.NotNil(t, client.GetGraph())
	assert.NotNil(t, client.GetLLM())
	assert.NotNil(t, client.GetEmbedder())
}

func TestIndexText(t *testing.T) {
	client, graph, vectors, _ := newTestClient(t)
	ctx := context.Background()

	result, err := client.IndexText(ctx, types.Chunk{ChunkID: "c1", DocID: "d1", Text: "Ada wrote programs for the Analytical Engine."})
	require.NoError(t, err)

	assert.Equal(t, "c1", result.ChunkID)
	assert.Equal(t, "d1", result.DocID)
	require.Len(t, result.Entities, 2)
	assert.Equal(t, "ada lovelace", result.Entities[0].ID)
	assert.Equal(t, 1, result.Relations)

	require.Len(t, vectors.chunks, 1)
	assert.Equal(t, []string{"ada lovelace", "analytical engine"}, vectors.entityIDs[0])
	assert.Len(t, graph.entities, 2)
	require.Len(t, graph.relations, 1)
	assert.Equal(t, "ada lovelace", graph.relations[0].Source)
	assert.Equal(t, "analytical engine", graph.relations[0].Target)

	stats, err := client.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &types.GraphStats{Entities: 2, Relations: 1}, stats)
}

func TestIndexExtractedGeneratesChunkID(t *testing.T) {
	client, _, _, _ := newTestClient(t)

	result, err := client.IndexExtracted(context.Background(), types.Chunk{Text: "plain text"}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.ChunkID)
	assert.Empty(t, result.Entities)
}

func TestSearchValidation(t *testing.T) {
	client, _, _, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.LocalSearch(ctx, "   ", 5)
	assert.ErrorIs(t, err, types.ErrEmptyQuery)

	_, err = client.GlobalSearch(ctx, "themes", 0)
	assert.ErrorIs(t, err, types.ErrInvalidLimit)
}

func TestGlobalSearchWithoutSummaries(t *testing.T) {
	client, _, _, llm := newTestClient(t)

	result, err := client.GlobalSearch(context.Background(), "what are the themes?", 3)
	require.NoError(t, err)
	assert.Empty(t, result.Communities)
	assert.Zero(t, llm.chats)
}

func TestBuildCommunitiesEmptyGraph(t *testing.T) {
	client, _, _, _ := newTestClient(t)

	result, err := client.BuildCommunities(context.Background())
	require.NoError(t, err)
	assert.Zero(t, result.NumCommunities)
}

func TestHealthAndSchema(t *testing.T) {
	client, graph, _, _ := newTestClient(t)
	ctx := context.Background()

	assert.NoError(t, client.CheckVectors(ctx))
	assert.NoError(t, client.CheckGraph(ctx))

	graph.pingErr = errors.New("down")
	assert.Error(t, client.CheckGraph(ctx))

	require.NoError(t, client.CreateIndices(ctx))
	assert.True(t, graph.indexed)
}

func TestCloseJoinsErrors(t *testing.T) {
	client, graph, vectors, llm := newTestClient(t)
	graph.closeErr = errors.New("graph boom")
	llm.closeErr = errors.New("llm boom")

	err := client.Close(context.Background())
	require.Error(t, err)
	assert.True(t, vectors.closed)
	assert.Contains(t, err.Error(), "graph boom")
	assert.Contains(t, err.Error(), "llm boom")
}

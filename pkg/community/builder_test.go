package community

import (
	"context"
	"errors"
	"testing"

	"github.com/soundprediction/graphrag/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_Build(t *testing.T) {
	store := newFakeStore(rel("a", "b"), rel("c", "d"))
	llm := &fakeLLM{reply: " summary \n"}
	summaries := &memorySummaryStore{}

	result, err := NewBuilder(store, llm, summaries, nil).WithConcurrency(2).Build(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, result.NumEntities)
	assert.Equal(t, 2, result.NumCommunities)
	assert.Equal(t, map[string]int{"a": 0, "b": 0, "c": 1, "d": 1}, store.communities)

	require.Len(t, result.Summaries, 2)
	assert.Equal(t, types.CommunitySummary{
		CommunityID: 0,
		EntityCount: 2,
		Summary:     "summary",
		KeyEntities: []string{"name-a", "name-b"},
	}, result.Summaries[0])
	assert.Equal(t, 1, result.Summaries[1].CommunityID)
	assert.Equal(t, []string{"name-c", "name-d"}, result.Summaries[1].KeyEntities)

	assert.Equal(t, 1, summaries.calls)
	assert.Equal(t, result.Summaries, summaries.summaries)
	assert.Len(t, llm.prompts, 2)
}

func TestBuilder_EmptyGraphClearsSummaries(t *testing.T) {
	llm := &fakeLLM{reply: "unused"}
	summaries := &memorySummaryStore{summaries: []types.CommunitySummary{{CommunityID: 0, Summary: "stale"}}}

	result, err := NewBuilder(newFakeStore(), llm, summaries, nil).Build(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.NumCommunities)
	assert.Empty(t, result.Summaries)
	assert.Empty(t, llm.prompts)
	assert.Equal(t, 1, summaries.calls)
	assert.Empty(t, summaries.summaries)
}

func TestBuilder_EmptyGraphRemovesSummaryFiles(t *testing.T) {
	ctx := context.Background()
	store := NewFileSummaryStore(t.TempDir())
	require.NoError(t, store.ReplaceAll(ctx, []types.CommunitySummary{{CommunityID: 3, Summary: "stale"}}))

	_, err := NewBuilder(newFakeStore(), &fakeLLM{}, store, nil).Build(ctx)
	require.NoError(t, err)

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestBuilder_SummarizeFailureKeepsOldSummaries(t *testing.T) {
	store := newFakeStore(rel("a", "b"))
	llm := &fakeLLM{err: errors.New("model exploded")}
	summaries := &memorySummaryStore{summaries: []types.CommunitySummary{{CommunityID: 7}}}

	_, err := NewBuilder(store, llm, summaries, nil).Build(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, summaries.calls)
	assert.Equal(t, 7, summaries.summaries[0].CommunityID)
}

func TestBuilder_ExportFailure(t *testing.T) {
	store := newFakeStore()
	store.exportErr = types.NewUnavailableError("neo4j", "all relations", errors.New("down"))

	_, err := NewBuilder(store, &fakeLLM{}, &memorySummaryStore{}, nil).Build(context.Background())
	assert.ErrorIs(t, err, types.ErrUnavailable)
}

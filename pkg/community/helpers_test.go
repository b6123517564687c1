package community

import (
	"context"
	"sync"

	"github.com/soundprediction/graphrag/pkg/types"
)

// fakeStore is an in-memory graph store for testing
type fakeStore struct {
	mu          sync.Mutex
	relations   []types.RelationDetail
	entities    map[string]types.EntityDetail
	communities map[string]int
	exportErr   error
	writeErr    error
}

func newFakeStore(relations ...types.RelationDetail) *fakeStore {
	s := &fakeStore{
		relations:   relations,
		entities:    make(map[string]types.EntityDetail),
		communities: make(map[string]int),
	}
	for _, r := range relations {
		for _, id := range []string{r.Source, r.Target} {
			s.entities[id] = types.EntityDetail{ID: id, Name: "name-" + id, Type: "CONCEPT", Description: "desc " + id}
		}
	}
	return s
}

func rel(source, target string) types.RelationDetail {
	return types.RelationDetail{Source: source, Relation: "relates_to", Target: target}
}

func (s *fakeStore) AllRelations(ctx context.Context) ([]types.RelationEndpoints, error) {
	if s.exportErr != nil {
		return nil, s.exportErr
	}
	out := make([]types.RelationEndpoints, 0, len(s.relations))
	for _, r := range s.relations {
		out = append(out, types.RelationEndpoints{Source: r.Source, Target: r.Target})
	}
	return out, nil
}

func (s *fakeStore) EntityDetails(ctx context.Context, ids []string) ([]types.EntityDetail, error) {
	var out []types.EntityDetail
	for _, id := range ids {
		if e, ok := s.entities[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeStore) RelationsWithin(ctx context.Context, ids []string, limit int) ([]types.RelationDetail, error) {
	in := make(map[string]bool, len(ids))
	for _, id := range ids {
		in[id] = true
	}
	var out []types.RelationDetail
	for _, r := range s.relations {
		if len(out) == limit {
			break
		}
		if in[r.Source] && in[r.Target] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) Neighbors(ctx context.Context, ids []string) ([]string, error) {
	return nil, nil
}

func (s *fakeStore) SetCommunity(ctx context.Context, entityID string, communityID int) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.communities[entityID] = communityID
	return nil
}

// fakeLLM answers every prompt with the same reply and records prompts
type fakeLLM struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) Chat(ctx context.Context, messages []types.Message) (*types.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range messages {
		f.prompts = append(f.prompts, m.Content)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &types.Response{Content: f.reply}, nil
}

func (f *fakeLLM) ChatWithStructuredOutput(ctx context.Context, messages []types.Message, schema any) (*types.Response, error) {
	return f.Chat(ctx, messages)
}

func (f *fakeLLM) Close() error {
	return nil
}

// memorySummaryStore keeps summaries in memory
type memorySummaryStore struct {
	summaries []types.CommunitySummary
	calls     int
}

func (m *memorySummaryStore) ReplaceAll(ctx context.Context, summaries []types.CommunitySummary) error {
	m.calls++
	m.summaries = append([]types.CommunitySummary(nil), summaries...)
	return nil
}

func (m *memorySummaryStore) LoadAll(ctx context.Context) ([]types.CommunitySummary, error) {
	return m.summaries, nil
}

package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/soundprediction/graphrag/pkg/driver"
	"github.com/soundprediction/graphrag/pkg/embedder"
	"github.com/soundprediction/graphrag/pkg/nlp"
	"github.com/soundprediction/graphrag/pkg/types"
	"github.com/soundprediction/graphrag/pkg/vectorstore"
)

const (
	// ExpansionHops is the number of neighbour hops taken from the seed entities.
	ExpansionHops = 2

	// MaxContextRelations bounds the relations fetched for the expanded entity set.
	MaxContextRelations = 50
)

// LocalSearchEngine answers questions from nearby chunks and their graph neighbourhood.
type LocalSearchEngine struct {
	embedder embedder.Client
	vectors  vectorstore.Store
	graph    driver.GraphReader
	llm      nlp.Client
	logger   *slog.Logger
}

// NewLocalSearchEngine creates a local search engine.
func NewLocalSearchEngine(embedderClient embedder.Client, vectors vectorstore.Store, graph driver.GraphReader, llm nlp.Client, logger *slog.Logger) *LocalSearchEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalSearchEngine{
		embedder: embedderClient,
		vectors:  vectors,
		graph:    graph,
		llm:      llm,
		logger:   logger,
	}
}

// Search retrieves the topK nearest chunks, expands their entities and
// generates an answer. An empty vector result still produces an answer.
func (e *LocalSearchEngine) Search(ctx context.Context, query string, topK int) (*types.LocalSearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.ErrEmptyQuery
	}
	if topK <= 0 {
		return nil, types.ErrInvalidLimit
	}

	queryVector, err := e.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	chunks, err := e.vectors.SimilaritySearch(ctx, queryVector, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}

	seeds := newOrderedSet()
	sources := make([]types.Source, 0, len(chunks))
	for _, chunk := range chunks {
		seeds.add(vectorstore.ParseEntityIDs(chunk.EntityIDs)...)
		if chunk.ChunkID != "" && chunk.Text != "" {
			sources = append(sources, types.Source{
				ChunkID: chunk.ChunkID,
				Text:    chunk.Text,
				Score:   chunk.Score,
			})
		}
	}

	var (
		entities  []types.EntityDetail
		relations []types.RelationDetail
	)
	expanded := newOrderedSet()
	if seeds.len() > 0 {
		expanded, err = e.expand(ctx, seeds, ExpansionHops)
		if err != nil {
			return nil, err
		}

		entities, err = e.graph.EntityDetails(ctx, expanded.items)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch entity details: %w", err)
		}
		relations, err = e.graph.RelationsWithin(ctx, expanded.items, MaxContextRelations)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch relations: %w", err)
		}
	}

	contextBlock := buildLocalContext(sources, entities, relations)
	e.logger.Debug("Local search context",
		"chunks", len(chunks),
		"entities_found", seeds.len(),
		"entities_expanded", expanded.len(),
		"relations", len(relations),
		"context_size", len(contextBlock))

	answer, err := nlp.Generate(ctx, e.llm, localPrompt(query, contextBlock))
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	return &types.LocalSearchResult{
		Answer:  answer,
		Sources: sources,
		Trace: types.LocalSearchTrace{
			ChunksRetrieved:  len(chunks),
			EntitiesFound:    seeds.len(),
			EntitiesExpanded: expanded.len(),
			ContextSize:      len(contextBlock),
		},
	}, nil
}

// expand unions the neighbours of the whole accumulated set into it, hops times.
func (e *LocalSearchEngine) expand(ctx context.Context, seeds *orderedSet, hops int) (*orderedSet, error) {
	expanded := seeds.clone()
	for hop := 0; hop < hops; hop++ {
		if expanded.len() == 0 {
			break
		}
		neighbors, err := e.graph.Neighbors(ctx, expanded.items)
		if err != nil {
			return nil, fmt.Errorf("failed to expand graph at hop %d: %w", hop+1, err)
		}
		expanded.add(neighbors...)
	}
	return expanded, nil
}

// orderedSet is a string set that remembers insertion order.
type orderedSet struct {
	items []string
	seen  map[string]struct{}
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(ids ...string) {
	for _, id := range ids {
		if _, ok := s.seen[id]; ok {
			continue
		}
		s.seen[id] = struct{}{}
		s.items = append(s.items, id)
	}
}

func (s *orderedSet) len() int {
	return len(s.items)
}

func (s *orderedSet) clone() *orderedSet {
	out := newOrderedSet()
	out.add(s.items...)
	return out
}

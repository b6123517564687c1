package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/soundprediction/graphrag/pkg/embedder"
	"github.com/soundprediction/graphrag/pkg/nlp"
	"github.com/soundprediction/graphrag/pkg/types"
	"github.com/soundprediction/graphrag/pkg/utils"
)

// SummaryLoader supplies the persisted community summaries.
type SummaryLoader interface {
	// LoadAll returns every summary in a stable order.
	LoadAll(ctx context.Context) ([]types.CommunitySummary, error)
}

// GlobalSearchEngine answers corpus-wide questions from community summaries.
type GlobalSearchEngine struct {
	summaries SummaryLoader
	embedder  embedder.Client
	llm       nlp.Client
	logger    *slog.Logger
}

// NewGlobalSearchEngine creates a global search engine.
func NewGlobalSearchEngine(summaries SummaryLoader, embedderClient embedder.Client, llm nlp.Client, logger *slog.Logger) *GlobalSearchEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &GlobalSearchEngine{
		summaries: summaries,
		embedder:  embedderClient,
		llm:       llm,
		logger:    logger,
	}
}

// Search ranks every community summary by cosine similarity to the query
// and synthesizes an answer from the topK best. Equal scores keep load
// order. With no summaries the result is empty and the LLM is not called.
func (e *GlobalSearchEngine) Search(ctx context.Context, query string, topK int) (*types.GlobalSearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.ErrEmptyQuery
	}
	if topK <= 0 {
		return nil, types.ErrInvalidLimit
	}

	summaries, err := e.summaries.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load community summaries: %w", err)
	}
	if len(summaries) == 0 {
		e.logger.Info("No community summaries to search")
		return &types.GlobalSearchResult{Communities: []types.CommunityReference{}}, nil
	}

	queryVector, err := e.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored := make([]utils.ScoredItem[types.CommunitySummary], 0, len(summaries))
	for _, summary := range summaries {
		vector, err := e.embedder.EmbedSingle(ctx, summary.Summary)
		if err != nil {
			return nil, fmt.Errorf("failed to embed summary of community %d: %w", summary.CommunityID, err)
		}
		scored = append(scored, utils.ScoredItem[types.CommunitySummary]{
			Item:  summary,
			Score: utils.CosineSimilarity(queryVector, vector),
		})
	}

	top := utils.TopKStable(scored, topK)
	refs := make([]types.CommunityReference, 0, len(top))
	for _, s := range top {
		refs = append(refs, types.CommunityReference{
			CommunityID:    s.Item.CommunityID,
			Summary:        s.Item.Summary,
			KeyEntities:    s.Item.KeyEntities,
			RelevanceScore: s.Score,
		})
	}

	contextBlock := buildGlobalContext(refs)
	e.logger.Debug("Global search context",
		"communities_searched", len(summaries),
		"communities_used", len(refs),
		"context_size", len(contextBlock))

	answer, err := nlp.Generate(ctx, e.llm, globalPrompt(query, contextBlock))
	if err != nil {
		return nil, fmt.Errorf("failed to generate synthesis: %w", err)
	}

	return &types.GlobalSearchResult{
		Answer:      answer,
		Communities: refs,
		Trace: types.GlobalSearchTrace{
			CommunitiesSearched: len(summaries),
			CommunitiesUsed:     len(refs),
		},
	}, nil
}

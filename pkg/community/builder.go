package community

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/soundprediction/graphrag/pkg/driver"
	"github.com/soundprediction/graphrag/pkg/nlp"
	"github.com/soundprediction/graphrag/pkg/types"
	"golang.org/x/sync/errgroup"
)

const (
	// MaxCommunityBuildConcurrency limits concurrent community summarization
	MaxCommunityBuildConcurrency = 10
)

// Store is the graph store surface a build run needs.
type Store interface {
	driver.GraphReader
	driver.CommunityWriter
}

// Builder runs the detect, assign, summarize and persist pipeline.
type Builder struct {
	exporter    *Exporter
	detector    *Detector
	writer      driver.CommunityWriter
	summarizer  *Summarizer
	summaries   SummaryStore
	logger      *slog.Logger
	concurrency int
}

// BuildResult describes a finished build run.
type BuildResult struct {
	NumEntities    int                      `json:"num_entities"`
	NumCommunities int                      `json:"num_communities"`
	Passes         int                      `json:"passes"`
	Summaries      []types.CommunitySummary `json:"summaries"`
	Duration       time.Duration            `json:"duration"`
}

// NewBuilder creates a new community builder
func NewBuilder(store Store, llmClient nlp.Client, summaries SummaryStore, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		exporter:    NewExporter(store, logger),
		detector:    NewDetector(),
		writer:      store,
		summarizer:  NewSummarizer(llmClient),
		summaries:   summaries,
		logger:      logger,
		concurrency: MaxCommunityBuildConcurrency,
	}
}

// WithConcurrency bounds how many communities are summarized at once.
func (b *Builder) WithConcurrency(n int) *Builder {
	if n > 0 {
		b.concurrency = n
	}
	return b
}

// WithMaxPasses overrides the Louvain pass cap.
func (b *Builder) WithMaxPasses(n int) *Builder {
	if n > 0 {
		b.detector.MaxPasses = n
	}
	return b
}

// Build detects communities, stores the assignment and regenerates all
// summaries. Any failure aborts the run; an empty graph yields an empty result.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	start := time.Now()

	graph, err := b.exporter.ExportGraph(ctx)
	if err != nil {
		return nil, err
	}
	if graph.IsEmpty() {
		b.logger.Info("No entities to cluster, clearing community summaries")
		if err := b.summaries.ReplaceAll(ctx, []types.CommunitySummary{}); err != nil {
			return nil, fmt.Errorf("failed to clear community summaries: %w", err)
		}
		return &BuildResult{Summaries: []types.CommunitySummary{}, Duration: time.Since(start)}, nil
	}

	raw, passes := b.detector.Partition(graph.NumEntities(), graph.Edges)
	assignment := make(types.CommunityAssignment, graph.NumEntities())
	for idx, c := range renumber(raw) {
		assignment[graph.Entities[idx]] = c
	}
	b.logger.Info("Clustering", "num_entities", graph.NumEntities(), "num_communities", assignment.NumCommunities(), "passes", passes)

	if err := AssignCommunities(ctx, b.writer, graph, assignment); err != nil {
		return nil, err
	}

	summaries, err := b.summarize(ctx, assignment.Members(graph.Entities))
	if err != nil {
		return nil, err
	}

	if err := b.summaries.ReplaceAll(ctx, summaries); err != nil {
		return nil, fmt.Errorf("failed to save community summaries: %w", err)
	}

	result := &BuildResult{
		NumEntities:    graph.NumEntities(),
		NumCommunities: len(summaries),
		Passes:         passes,
		Summaries:      summaries,
		Duration:       time.Since(start),
	}
	b.logger.Info("Built communities", "num_communities", result.NumCommunities, "duration", result.Duration)
	return result, nil
}

func (b *Builder) summarize(ctx context.Context, members map[int][]string) ([]types.CommunitySummary, error) {
	ids := make([]int, 0, len(members))
	for c := range members {
		ids = append(ids, c)
	}
	sort.Ints(ids)

	summaries := make([]types.CommunitySummary, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, communityID := range ids {
		g.Go(func() error {
			entities, err := b.exporter.CommunityEntities(gctx, members[communityID])
			if err != nil {
				return err
			}
			relations, err := b.exporter.CommunityRelations(gctx, members[communityID])
			if err != nil {
				return err
			}

			summary, err := b.summarizer.Summarize(gctx, communityID, entities, relations)
			if err != nil {
				return err
			}
			summaries[i] = *summary

			b.logger.Debug("Summarized community", "community_id", communityID, "entity_count", summary.EntityCount)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

package community

import (
	"context"
	"fmt"
	"strings"

	"github.com/soundprediction/graphrag/pkg/nlp"
	"github.com/soundprediction/graphrag/pkg/types"
)

const (
	maxPromptEntities  = 10
	maxPromptRelations = 10
)

// Summarizer writes a textual summary of one community with the LLM.
type Summarizer struct {
	llm nlp.Client
}

// NewSummarizer creates a summarizer backed by llm.
func NewSummarizer(llm nlp.Client) *Summarizer {
	return &Summarizer{llm: llm}
}

// Summarize describes the community from its entities and relations.
func (s *Summarizer) Summarize(ctx context.Context, communityID int, entities []types.EntityDetail, relations []types.RelationDetail) (*types.CommunitySummary, error) {
	text, err := nlp.Generate(ctx, s.llm, buildSummaryPrompt(entities, relations))
	if err != nil {
		return nil, fmt.Errorf("failed to summarize community %d: %w", communityID, err)
	}

	keyEntities := make([]string, 0, types.MaxKeyEntities)
	for _, e := range entities {
		if len(keyEntities) == types.MaxKeyEntities {
			break
		}
		keyEntities = append(keyEntities, e.Name)
	}

	return &types.CommunitySummary{
		CommunityID: communityID,
		EntityCount: len(entities),
		Summary:     strings.TrimSpace(text),
		KeyEntities: keyEntities,
	}, nil
}

func buildSummaryPrompt(entities []types.EntityDetail, relations []types.RelationDetail) string {
	var b strings.Builder
	b.WriteString("You are analyzing a community of related entities from a knowledge graph.\n\n")

	b.WriteString("ENTITIES IN THIS COMMUNITY:\n")
	for i, e := range entities {
		if i == maxPromptEntities {
			break
		}
		fmt.Fprintf(&b, "- %s (%s): %s\n", e.Name, e.Type, e.Description)
	}

	if len(relations) > 0 {
		b.WriteString("\nKEY RELATIONSHIPS:\n")
		for i, r := range relations {
			if i == maxPromptRelations {
				break
			}
			fmt.Fprintf(&b, "- %s %s %s\n", r.Source, r.Relation, r.Target)
		}
	}

	b.WriteString("\nTASK: Write a 2-3 paragraph summary describing:\n" +
		"1. The main theme or topic of this community\n" +
		"2. Key entities and their roles\n" +
		"3. Important relationships and patterns\n\n" +
		"Keep it concise and factual. Do NOT use markdown formatting.\n\n" +
		"SUMMARY:")

	return b.String()
}

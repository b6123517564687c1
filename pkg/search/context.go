package search

import (
	"fmt"
	"strings"

	"github.com/soundprediction/graphrag/pkg/types"
)

const (
	maxContextChunks    = 5
	maxContextEntities  = 10
	maxContextRelations = 10
)

const localAnswerPrompt = `You are a helpful assistant answering questions based on the provided context.

CONTEXT:
%s

USER QUESTION: %s

INSTRUCTIONS:
- Answer the question using only information from the context above
- Be specific and cite relevant chunks, entities, or relationships
- If the context doesn't contain enough information, say so
- Keep your answer concise and factual

ANSWER:`

const globalSynthesisPrompt = `You are a helpful assistant synthesizing information from multiple thematic communities.

COMMUNITY SUMMARIES:
%s

USER QUESTION: %s

INSTRUCTIONS:
- Synthesize a comprehensive answer drawing from the community summaries
- Identify overarching themes and patterns
- Provide a high-level overview rather than specific details
- Mention which communities are most relevant
- Be clear about the scope and limitations of your answer

SYNTHESIS:`

// buildLocalContext renders the chunk, entity and relation sections.
func buildLocalContext(sources []types.Source, entities []types.EntityDetail, relations []types.RelationDetail) string {
	var b strings.Builder

	b.WriteString("RELEVANT TEXT CHUNKS:\n")
	for i, s := range sources {
		if i == maxContextChunks {
			break
		}
		fmt.Fprintf(&b, "[Chunk %d] %s\n\n", i+1, s.Text)
	}

	if len(entities) > 0 {
		b.WriteString("\nRELEVANT ENTITIES:\n")
		for i, e := range entities {
			if i == maxContextEntities {
				break
			}
			fmt.Fprintf(&b, "- %s (%s): %s\n", e.Name, e.Type, e.Description)
		}
	}

	if len(relations) > 0 {
		b.WriteString("\nKEY RELATIONSHIPS:\n")
		for i, r := range relations {
			if i == maxContextRelations {
				break
			}
			fmt.Fprintf(&b, "- %s %s %s (Evidence: %s)\n", r.Source, r.Relation, r.Target, r.Evidence)
		}
	}

	return b.String()
}

// buildGlobalContext lists the selected communities, best first.
func buildGlobalContext(communities []types.CommunityReference) string {
	var b strings.Builder
	b.WriteString("THEMATIC COMMUNITIES:\n\n")
	for i, c := range communities {
		fmt.Fprintf(&b, "Community %d (relevance: %.2f):\n%s\n\nKey entities: %s\n\n",
			i+1, c.RelevanceScore, c.Summary, strings.Join(c.KeyEntities, ", "))
	}
	return b.String()
}

func localPrompt(query, context string) string {
	return fmt.Sprintf(localAnswerPrompt, context, query)
}

func globalPrompt(query, context string) string {
	return fmt.Sprintf(globalSynthesisPrompt, context, query)
}

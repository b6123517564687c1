package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/soundprediction/graphrag/pkg/nlp"
	"github.com/soundprediction/graphrag/pkg/normalize"
	"github.com/soundprediction/graphrag/pkg/types"
)

// DefaultMaxAttempts is the number of extraction prompts sent before giving up.
const DefaultMaxAttempts = 3

// Extractor extracts entities and relations from text.
type Extractor struct {
	llm         nlp.Client
	normalizer  *normalize.Normalizer
	logger      *slog.Logger
	MaxAttempts int
}

// NewExtractor creates an extractor. A nil normalizer gets a fresh one.
func NewExtractor(llm nlp.Client, normalizer *normalize.Normalizer, logger *slog.Logger) *Extractor {
	if normalizer == nil {
		normalizer = normalize.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		llm:         llm,
		normalizer:  normalizer,
		logger:      logger,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Normalizer returns the normalizer shared by every extraction.
func (e *Extractor) Normalizer() *normalize.Normalizer {
	return e.normalizer
}

// Extract asks the model for entities and relations in text and
// canonicalizes them.
func (e *Extractor) Extract(ctx context.Context, text string) (*types.ExtractionResult, error) {
	raw, err := e.generate(ctx, buildExtractionPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("failed to extract entities: %w", err)
	}
	return e.canonicalize(raw), nil
}

// ExtractChunk extracts from one chunk and tags the result with its ids.
func (e *Extractor) ExtractChunk(ctx context.Context, chunkID, docID, text string) (*types.ExtractedChunk, error) {
	result, err := e.Extract(ctx, text)
	if err != nil {
		return nil, err
	}
	return &types.ExtractedChunk{
		ChunkID:    chunkID,
		DocID:      docID,
		Extraction: *result,
	}, nil
}

// generate sends prompt until a reply parses. Every failed reply also gets
// one correction round trip.
func (e *Extractor) generate(ctx context.Context, prompt string) (*rawExtraction, error) {
	attempts := e.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		response, err := nlp.GenerateJSON(ctx, e.llm, prompt)
		if err != nil {
			return nil, err
		}
		raw, err := parseExtraction(response)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		e.logger.Warn("Invalid extraction JSON", "attempt", attempt+1, "error", err)

		if attempt == attempts-1 {
			break
		}
		corrected, err := nlp.GenerateJSON(ctx, e.llm, buildCorrectionPrompt(response))
		if err != nil {
			return nil, err
		}
		if raw, err := parseExtraction(corrected); err == nil {
			return raw, nil
		}
	}

	return nil, types.NewMalformedDataError("llm", "extraction",
		fmt.Sprintf("no valid JSON after %d attempts: %v", attempts, lastErr))
}

// canonicalize replaces entity ids and names with their canonical form and
// remaps relation endpoints from the model's local ids onto them. Relations
// whose endpoints cannot be resolved are dropped.
func (e *Extractor) canonicalize(raw *rawExtraction) *types.ExtractionResult {
	result := &types.ExtractionResult{
		Entities:  make([]types.Entity, 0, len(raw.Entities)),
		Relations: make([]types.Relation, 0, len(raw.Relations)),
	}

	localIDs := make(map[string]string, len(raw.Entities))
	seen := make(map[string]bool, len(raw.Entities))
	for _, re := range raw.Entities {
		id := e.normalizer.Normalize(re.Name)
		if id == "" {
			continue
		}
		if re.ID != "" {
			localIDs[strings.TrimSpace(re.ID)] = id
		}
		if seen[id] {
			continue
		}
		seen[id] = true

		entityType, ok := types.ParseEntityType(re.Type)
		if !ok || entityType == types.EntityTypeUnknown {
			entityType = types.EntityTypeConcept
		}
		result.Entities = append(result.Entities, types.Entity{
			ID:          id,
			Name:        id,
			Type:        entityType,
			Description: strings.TrimSpace(re.Description),
		})
	}

	for _, rr := range raw.Relations {
		source := resolveEndpoint(rr.Source, localIDs, result.Entities)
		target := resolveEndpoint(rr.Target, localIDs, result.Entities)
		if source == "" || target == "" {
			e.logger.Debug("Dropping relation with unresolved endpoint", "source", rr.Source, "target", rr.Target)
			continue
		}
		result.Relations = append(result.Relations, types.Relation{
			Source:   source,
			Target:   target,
			Relation: strings.TrimSpace(rr.Relation),
			Evidence: strings.TrimSpace(rr.Evidence),
		})
	}

	return result
}

// resolveEndpoint maps a model-local id onto a normalized entity id. Exact
// local ids win; otherwise the first entity whose id starts with the
// endpoint's two-character prefix is used.
func resolveEndpoint(endpoint string, localIDs map[string]string, entities []types.Entity) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return ""
	}
	if id, ok := localIDs[endpoint]; ok {
		return id
	}

	prefix := endpoint
	if runes := []rune(endpoint); len(runes) > 2 {
		prefix = string(runes[:2])
	}
	for _, entity := range entities {
		if strings.HasPrefix(entity.ID, prefix) {
			return entity.ID
		}
	}
	return ""
}

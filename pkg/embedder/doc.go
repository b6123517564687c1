// Package embedder turns text into vectors for chunk indexing, query
// embedding and community summary ranking.
//
// Client is implemented by OpenAIEmbedder (any OpenAI-compatible endpoint)
// and OllamaEmbedder. Vectors from one Client always have the same length,
// reported by Dimensions.
//
//	emb, err := embedder.NewOllamaEmbedder(embedder.Config{Model: "nomic-embed-text"}, "")
//	if err != nil {
//	    return err
//	}
//	vector, err := emb.EmbedSingle(ctx, "who maintains the parser?")
//
// # Caching
//
// Global search embeds every community summary on every query.
// NewCachedEmbedder stores vectors in badger keyed by model and text, so
// unchanged summaries are embedded once:
//
//	cached, err := embedder.NewCachedEmbedder(emb, "/var/lib/graphrag/embeddings", "nomic-embed-text")
//
// An empty path keeps the cache in memory.
package embedder

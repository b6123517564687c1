// Package search answers questions over the indexed corpus.
//
// Two query paths share the embedding and LLM collaborators:
//
//   - LocalSearchEngine retrieves the nearest text chunks, expands the
//     entities they mention two hops through the graph, and answers from
//     the assembled chunk, entity and relation context.
//   - GlobalSearchEngine ranks the precomputed community summaries against
//     the query and synthesizes a thematic answer from the best ones.
//
// # Usage
//
//	local := search.NewLocalSearchEngine(embedder, vectors, graph, llm, logger)
//	result, err := local.Search(ctx, "who maintains the parser?", 5)
//
//	global := search.NewGlobalSearchEngine(summaries, embedder, llm, logger)
//	overview, err := global.Search(ctx, "what are the main themes?", 3)
//
// Every stage failure aborts the search and is returned wrapped; there is
// no partial answer. Callers that want retries wrap the collaborators with
// the decorators in package nlp.
package search

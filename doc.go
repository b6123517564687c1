// Package graphrag provides graph-augmented retrieval over a text corpus.
//
// Text chunks are run through LLM extraction, stored in a pgvector table
// and a Neo4j entity graph, clustered into communities and summarized.
// Questions are then answered two ways: local search follows the graph
// out from the nearest chunks, global search ranks the community
// summaries.
//
// # Basic Usage
//
//	graph, err := driver.NewNeo4jDriver("bolt://localhost:7687", "neo4j", "password", "neo4j")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	vectors, err := vectorstore.NewPGVectorStore(ctx, vectorstore.Config{
//		URL:        "postgres://localhost:5432/graphrag",
//		Dimensions: 768,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	llmClient, _ := nlp.NewOllamaClient(nlp.Config{Model: "llama3.1"}, nlp.OllamaOptions{})
//	embedderClient, _ := embedder.NewOllamaEmbedder(embedder.Config{Model: "nomic-embed-text"}, "")
//
//	client, err := graphrag.NewClient(graph, vectors, llmClient, embedderClient, nil, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
// # Indexing
//
//	result, err := client.IndexText(ctx, types.Chunk{DocID: "handbook", Text: text})
//
// # Communities
//
// Community ids and summaries are rebuilt wholesale:
//
//	build, err := client.BuildCommunities(ctx)
//
// # Searching
//
//	local, err := client.LocalSearch(ctx, "who maintains the parser?", 5)
//	global, err := client.GlobalSearch(ctx, "what are the main themes?", 3)
package graphrag

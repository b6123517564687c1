// Package community detects communities in the entity graph and summarizes them.
//
// A build run exports the graph from the store, partitions it with
// single-level Louvain, writes every entity's community id back to the
// store, asks the LLM for one summary per community and replaces the
// summaries on disk.
//
//	builder := community.NewBuilder(store, llmClient, summaries, logger)
//	result, err := builder.Build(ctx)
//
// Only the local-move phase of Louvain is run. There is no aggregation
// into a coarser graph, so hierarchical structure on large graphs is
// under-detected.
package community

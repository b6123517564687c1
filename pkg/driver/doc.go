// Package driver provides the graph store used by graphrag.
//
// The graph store is the system of record for entities, relations and
// community assignments. Consumers depend on the narrow interfaces declared
// in driver.go (EntityWriter, GraphReader, CommunityWriter, StatsReader);
// Neo4jDriver implements all of them.
//
// # Usage
//
//	store, err := driver.NewNeo4jDriver("bolt://localhost:7687", "neo4j", "password", "neo4j")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	if err := store.CreateIndices(ctx); err != nil {
//		log.Fatal(err)
//	}
//
// # Errors
//
// Connection failures are returned as *types.UnavailableError and records
// missing an expected column as *types.MalformedDataError. Nothing is
// retried here.
//
// # Thread Safety
//
// Neo4jDriver is safe for concurrent use from multiple goroutines. Each call
// opens its own session on the pooled driver.
package driver

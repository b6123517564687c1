package types

// Chunk is a text fragment that is embedded and stored in the vector store.
type Chunk struct {
	ChunkID string `json:"chunk_id"`
	DocID   string `json:"doc_id"`
	Source  string `json:"source,omitempty"`
	Text    string `json:"text"`
}

// ScoredChunk is one vector similarity hit.
type ScoredChunk struct {
	Score     float64 `json:"score"`
	ChunkID   string  `json:"chunk_id"`
	Text      string  `json:"text"`
	EntityIDs string  `json:"entity_ids"`
}

// Source is a chunk cited by a local search answer.
type Source struct {
	ChunkID string  `json:"chunk_id"`
	Text    string  `json:"text"`
	Score   float64 `json:"score"`
}

// LocalSearchTrace reports what a local search touched.
type LocalSearchTrace struct {
	ChunksRetrieved  int `json:"chunks_retrieved"`
	EntitiesFound    int `json:"entities_found"`
	EntitiesExpanded int `json:"entities_expanded"`
	ContextSize      int `json:"context_size"`
}

// LocalSearchResult is the answer of a local search.
type LocalSearchResult struct {
	Answer  string           `json:"answer"`
	Sources []Source         `json:"sources"`
	Trace   LocalSearchTrace `json:"trace"`
}

// CommunityReference is a community used by a global search answer.
type CommunityReference struct {
	CommunityID    int      `json:"community_id"`
	Summary        string   `json:"summary"`
	KeyEntities    []string `json:"key_entities"`
	RelevanceScore float64  `json:"relevance_score"`
}

// GlobalSearchTrace reports what a global search touched.
type GlobalSearchTrace struct {
	CommunitiesSearched int `json:"communities_searched"`
	CommunitiesUsed     int `json:"communities_used"`
}

// GlobalSearchResult is the answer of a global search.
type GlobalSearchResult struct {
	Answer      string               `json:"answer"`
	Communities []CommunityReference `json:"communities"`
	Trace       GlobalSearchTrace    `json:"trace"`
}

// GraphStats holds the size of the persisted graph.
type GraphStats struct {
	Entities  int64 `json:"entities"`
	Relations int64 `json:"relations"`
}

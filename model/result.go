package model

// Source is one retrieved chunk cited by a query answer.
// RelevanceScore is the embedding distance (lower = more similar),
// not a probability.
type Source struct {
	Content        string  `json:"content"`
	ChunkIndex     int     `json:"chunk_id"`
	RelevanceScore float64 `json:"relevance_score"`
}

// QueryResult is the answer to one question against a ticker's index.
// Sources are ordered by ascending distance; the answer is extracted from
// the best match only.
type QueryResult struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
	Context string   `json:"context,omitempty"`
}

// IndexStats describes one ticker's index.
type IndexStats struct {
	Ticker     string `json:"ticker"`
	ChunkCount int    `json:"chunk_count"`
}

package port

import "ytrag/internal/domain"

// Retriever defines the interface for searching indexed chunks.
type Retriever interface {
	// Search returns the top-k chunks most similar to the query, best first.
	Search(query string, k int) ([]domain.ScoredChunk, error)
}

package port

// Embedder generates vector embeddings for text. The same embedder must be
// used for ingestion and for every query against a collection; the store does
// not detect a model switch.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text.
	Embed(texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

package cli

import (
	"fmt"

	"ytrag/config"
	"ytrag/internal/adapter/chunker"
	"ytrag/internal/adapter/embedding"
	"ytrag/internal/adapter/llm"
	"ytrag/internal/adapter/store"
	"ytrag/internal/adapter/transcript"
	"ytrag/internal/adapter/youtube"
	"ytrag/internal/port"
	"ytrag/internal/usecase"
)

// newCollection builds an unopened collection handle for the configured
// index location and embedding model.
func newCollection(cfg *config.Config) (*store.Collection, error) {
	embedder, err := embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return store.NewCollection(cfg.Index.Dir, cfg.Index.Name, embedder), nil
}

// newGenerator selects the generation backend once; call sites never branch
// on the provider again.
func newGenerator(cfg *config.Config) (port.Generator, error) {
	switch cfg.Provider {
	case "openai":
		return llm.NewOpenAIGenerator(cfg.OpenAI.APIKeyEnv, cfg.OpenAI.Model)
	case "gemini":
		return llm.NewGeminiGenerator(cfg.Gemini.APIKeyEnv, cfg.Gemini.Model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}

func newIngestUseCase(cfg *config.Config) (*usecase.IngestUseCase, error) {
	collection, err := newCollection(cfg)
	if err != nil {
		return nil, err
	}
	return usecase.NewIngestUseCase(
		youtube.NewClient(cfg.Captions.Language),
		transcript.NewStore(cfg.Transcripts.Dir),
		chunker.NewSplitter(cfg.Chunk.Size, cfg.Chunk.Overlap),
		collection,
	), nil
}

// newAnswerUseCase opens the persisted collection and wires the answer
// pipeline. Fails when no collection exists yet.
func newAnswerUseCase(cfg *config.Config) (*usecase.AnswerUseCase, *store.Collection, error) {
	collection, err := newCollection(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := collection.Load(); err != nil {
		return nil, nil, err
	}

	generator, err := newGenerator(cfg)
	if err != nil {
		collection.Close()
		return nil, nil, err
	}

	return usecase.NewAnswerUseCase(collection, generator, cfg.Retrieve.TopK), collection, nil
}

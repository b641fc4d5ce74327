package store

import (
	"errors"
	"fmt"
	"testing"

	"ytrag/internal/adapter/embedding"
	"ytrag/internal/domain"
)

func testChunks(videoID string, texts ...string) []domain.Chunk {
	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			Text: text,
			Provenance: domain.Provenance{
				VideoID:    videoID,
				ChunkID:    i,
				ChunkTotal: len(texts),
				URL:        domain.WatchURL(videoID),
			},
		}
	}
	return chunks
}

func newTestCollection(t *testing.T) *Collection {
	t.Helper()
	c := NewCollection(t.TempDir(), "test", embedding.NewMockEmbedder(32))
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCreateAndSearchRoundTrip(t *testing.T) {
	c := newTestCollection(t)

	chunks := testChunks("vid1",
		"the quick brown fox jumps over the lazy dog",
		"an entirely different sentence about cooking pasta",
		"yet another chunk discussing quantum mechanics",
	)
	if err := c.Create(chunks); err != nil {
		t.Fatal(err)
	}

	// Querying with a chunk's exact text must rank that chunk first.
	results, err := c.Search("an entirely different sentence about cooking pasta", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	top := results[0]
	if top.Chunk.Provenance.ChunkID != 1 {
		t.Errorf("expected chunk 1 at rank 0, got chunk %d", top.Chunk.Provenance.ChunkID)
	}
	for _, r := range results[1:] {
		if r.Score > top.Score {
			t.Errorf("results not ordered by score: %v > %v", r.Score, top.Score)
		}
	}
}

func TestSearchUninitialized(t *testing.T) {
	c := newTestCollection(t)

	_, err := c.Search("anything", 4)
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestAddUninitialized(t *testing.T) {
	c := newTestCollection(t)

	err := c.Add(testChunks("vid1", "text"))
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

func TestLoadMissing(t *testing.T) {
	c := newTestCollection(t)

	err := c.Load()
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadPersistedCollection(t *testing.T) {
	dir := t.TempDir()
	embedder := embedding.NewMockEmbedder(32)

	first := NewCollection(dir, "videos", embedder)
	if err := first.Create(testChunks("vid1", "persisted chunk text")); err != nil {
		t.Fatal(err)
	}
	if err := first.Close(); err != nil {
		t.Fatal(err)
	}

	second := NewCollection(dir, "", embedder)
	if err := second.Load(); err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	info, err := second.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "videos" {
		t.Errorf("expected name from persisted metadata, got %q", info.Name)
	}
	if info.Count != 1 {
		t.Errorf("expected 1 chunk after reload, got %d", info.Count)
	}
	if info.Model != "mock" {
		t.Errorf("expected recorded model name, got %q", info.Model)
	}

	results, err := second.Search("persisted chunk text", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Chunk.Text != "persisted chunk text" {
		t.Errorf("reloaded collection did not return stored chunk: %+v", results)
	}
}

func TestAddAppends(t *testing.T) {
	c := newTestCollection(t)

	if err := c.Create(testChunks("vid1", "first chunk")); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(testChunks("vid2", "second chunk")); err != nil {
		t.Fatal(err)
	}

	info, err := c.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.Count != 2 {
		t.Errorf("expected 2 chunks, got %d", info.Count)
	}
}

func TestSearchKLargerThanStore(t *testing.T) {
	c := newTestCollection(t)

	if err := c.Create(testChunks("vid1", "only chunk")); err != nil {
		t.Fatal(err)
	}

	results, err := c.Search("only chunk", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Errorf("expected 1 result, got %d", len(results))
	}
}

func TestDeleteIdempotent(t *testing.T) {
	c := newTestCollection(t)

	removed, err := c.Delete()
	if err != nil {
		t.Fatal(err)
	}
	if removed {
		t.Error("delete of a non-existent collection reported removal")
	}

	if err := c.Create(testChunks("vid1", "text")); err != nil {
		t.Fatal(err)
	}

	removed, err = c.Delete()
	if err != nil {
		t.Fatal(err)
	}
	if !removed {
		t.Error("delete of an existing collection reported nothing removed")
	}

	// Deleting again is still a clean no-op.
	if _, err := c.Delete(); err != nil {
		t.Fatal(err)
	}
}

func TestCreateReplacesExisting(t *testing.T) {
	c := newTestCollection(t)

	if err := c.Create(testChunks("vid1", "a", "b", "c")); err != nil {
		t.Fatal(err)
	}
	if err := c.Create(testChunks("vid2", "only")); err != nil {
		t.Fatal(err)
	}

	info, err := c.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.Count != 1 {
		t.Errorf("expected fresh collection with 1 chunk, got %d", info.Count)
	}
}

func TestInfoUninitialized(t *testing.T) {
	c := newTestCollection(t)

	if _, err := c.Info(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(texts []string) ([][]float32, error) {
	return nil, fmt.Errorf("embedding provider unreachable")
}
func (failingEmbedder) Dimension() int    { return 32 }
func (failingEmbedder) ModelName() string { return "failing" }

func TestCreateSurfacesEmbeddingFailure(t *testing.T) {
	c := NewCollection(t.TempDir(), "test", failingEmbedder{})
	defer c.Close()

	if err := c.Create(testChunks("vid1", "text")); err == nil {
		t.Fatal("expected embedding failure to surface")
	}
}

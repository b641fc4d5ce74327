package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"go.etcd.io/bbolt"
	"ytrag/config"
	"ytrag/internal/domain"
	"ytrag/internal/port"
)

var (
	bucketChunks = []byte("chunks")
	bucketVec    = []byte("vectors")
	bucketMeta   = []byte("meta")
	keyMeta      = []byte("collection")
)

var (
	// ErrNotFound means no persisted collection exists at the configured location.
	ErrNotFound = errors.New("vector collection not found")

	// ErrNotInitialized means the handle was used before Create or Load.
	ErrNotInitialized = errors.New("vector collection not initialized: call Create or Load first")
)

// Collection is a persisted set of (text, embedding, provenance) triples with
// brute-force cosine search. Embeddings are computed once at insertion and
// kept verbatim; queries are embedded with the same embedder. The handle is
// single-writer: concurrent Add calls from separate handles are not safe.
type Collection struct {
	dir      string
	name     string
	embedder port.Embedder

	mu      sync.RWMutex
	db      *bbolt.DB
	entries map[string]entry
}

type entry struct {
	vector []float32
	chunk  domain.Chunk
}

type storedChunk struct {
	Text       string            `json:"text"`
	Provenance domain.Provenance `json:"provenance"`
}

type storedVector struct {
	Vector []float32 `json:"v"`
}

type collectionMeta struct {
	Name      string `json:"name"`
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`
	CreatedAt int64  `json:"created_at"`
}

// NewCollection returns an unopened handle. Call Create or Load before any
// other operation.
func NewCollection(dir, name string, embedder port.Embedder) *Collection {
	return &Collection{
		dir:      dir,
		name:     name,
		embedder: embedder,
		entries:  make(map[string]entry),
	}
}

// Create embeds the given chunks and persists a fresh collection, replacing
// any previous one at the same location. A failed Create can leave the store
// indeterminate; the caller should Delete and retry.
func (c *Collection) Create(chunks []domain.Chunk) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db := c.db
	if db == nil {
		var err error
		db, err = bbolt.Open(config.IndexDBPath(c.dir), 0600, nil)
		if err != nil {
			return fmt.Errorf("failed to open collection: %w", err)
		}
	}

	err := db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketChunks, bucketVec, bucketMeta} {
			tx.DeleteBucket(b)
			if _, err := tx.CreateBucket(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		meta := collectionMeta{
			Name:      c.name,
			Model:     c.embedder.ModelName(),
			Dimension: c.embedder.Dimension(),
			CreatedAt: time.Now().Unix(),
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketMeta).Put(keyMeta, data)
	})
	if err != nil {
		if c.db == nil {
			db.Close()
		}
		return err
	}

	c.db = db
	c.entries = make(map[string]entry)

	return c.insert(chunks)
}

// Load reopens a previously persisted collection and warms the in-memory
// vector cache. Loading an already-open handle is a no-op.
func (c *Collection) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return nil
	}

	dbPath := config.IndexDBPath(c.dir)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("no collection at %s: %w", c.dir, ErrNotFound)
	}

	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to open collection: %w", err)
	}

	entries := make(map[string]entry)
	err = db.View(func(tx *bbolt.Tx) error {
		metaBucket := tx.Bucket(bucketMeta)
		if metaBucket == nil || metaBucket.Get(keyMeta) == nil {
			return fmt.Errorf("collection metadata missing: %w", ErrNotFound)
		}
		var meta collectionMeta
		if err := json.Unmarshal(metaBucket.Get(keyMeta), &meta); err != nil {
			return err
		}
		c.name = meta.Name

		chunkBucket := tx.Bucket(bucketChunks)
		vecBucket := tx.Bucket(bucketVec)
		return chunkBucket.ForEach(func(k, v []byte) error {
			var sc storedChunk
			if err := json.Unmarshal(v, &sc); err != nil {
				return nil // skip corrupted entries
			}
			var sv storedVector
			data := vecBucket.Get(k)
			if data == nil {
				return nil
			}
			if err := json.Unmarshal(data, &sv); err != nil {
				return nil
			}
			entries[string(k)] = entry{
				vector: sv.Vector,
				chunk:  domain.Chunk{Text: sc.Text, Provenance: sc.Provenance},
			}
			return nil
		})
	})
	if err != nil {
		db.Close()
		return err
	}

	c.db = db
	c.entries = entries
	return nil
}

// Add embeds and appends chunks to an open collection.
func (c *Collection) Add(chunks []domain.Chunk) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return ErrNotInitialized
	}
	return c.insert(chunks)
}

// insert embeds chunk texts and writes payloads and vectors in one
// transaction. Callers hold the write lock.
func (c *Collection) insert(chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, ch := range chunks {
		texts[i] = ch.Text
	}

	vectors, err := c.embedder.Embed(texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	dim := c.embedder.Dimension()
	err = c.db.Update(func(tx *bbolt.Tx) error {
		chunkBucket := tx.Bucket(bucketChunks)
		vecBucket := tx.Bucket(bucketVec)

		for i, ch := range chunks {
			if len(vectors[i]) != dim {
				return fmt.Errorf("vector dimension mismatch: expected %d, got %d", dim, len(vectors[i]))
			}

			key := chunkKey(ch.Provenance)
			chunkData, err := json.Marshal(storedChunk{Text: ch.Text, Provenance: ch.Provenance})
			if err != nil {
				return err
			}
			if err := chunkBucket.Put([]byte(key), chunkData); err != nil {
				return err
			}

			vecData, err := json.Marshal(storedVector{Vector: vectors[i]})
			if err != nil {
				return err
			}
			if err := vecBucket.Put([]byte(key), vecData); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for i, ch := range chunks {
		c.entries[chunkKey(ch.Provenance)] = entry{vector: vectors[i], chunk: ch}
	}
	return nil
}

// Search embeds the query and returns the k most similar chunks, best first.
func (c *Collection) Search(query string, k int) ([]domain.ScoredChunk, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return nil, ErrNotInitialized
	}

	vectors, err := c.embedder.Embed([]string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedder returned empty result")
	}
	queryVec := vectors[0]

	scored := make([]domain.ScoredChunk, 0, len(c.entries))
	for _, e := range c.entries {
		scored = append(scored, domain.ScoredChunk{
			Chunk: e.chunk,
			Score: cosineSimilarity(queryVec, e.vector),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// Delete removes the persisted collection entirely. Deleting a collection
// that does not exist is a no-op; the returned bool reports whether anything
// was removed.
func (c *Collection) Delete() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		c.db.Close()
		c.db = nil
	}
	c.entries = make(map[string]entry)

	if _, err := os.Stat(c.dir); os.IsNotExist(err) {
		return false, nil
	}
	if err := os.RemoveAll(c.dir); err != nil {
		return false, fmt.Errorf("failed to delete collection: %w", err)
	}
	return true, nil
}

// Info reports the open collection's name, vector count, location, and the
// embedding model recorded at creation time. The model is informational only;
// no mismatch check happens at query time.
func (c *Collection) Info() (domain.CollectionInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.db == nil {
		return domain.CollectionInfo{}, ErrNotInitialized
	}

	var meta collectionMeta
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketMeta).Get(keyMeta)
		if data == nil {
			return fmt.Errorf("collection metadata missing")
		}
		return json.Unmarshal(data, &meta)
	})
	if err != nil {
		return domain.CollectionInfo{}, err
	}

	return domain.CollectionInfo{
		Name:     meta.Name,
		Count:    len(c.entries),
		Location: c.dir,
		Model:    meta.Model,
	}, nil
}

func (c *Collection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func chunkKey(p domain.Provenance) string {
	return fmt.Sprintf("%s:%d", p.VideoID, p.ChunkID)
}

// cosineSimilarity calculates the cosine similarity between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

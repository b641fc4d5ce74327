package domain

// TranscriptRecord is one ingested video's caption track, normalized to plain
// text. Records are written once and never mutated; re-ingesting the same
// video overwrites the stored artifacts.
type TranscriptRecord struct {
	VideoID      string  `json:"video_id"`
	URL          string  `json:"url"`
	FullText     string  `json:"-"`
	SegmentCount int     `json:"segments"`
	Duration     float64 `json:"duration"`
}

// Provenance ties a chunk back to its source video. It is attached at
// chunking time and carried unchanged through the index and into citations.
type Provenance struct {
	VideoID    string `json:"video_id"`
	ChunkID    int    `json:"chunk_id"`
	ChunkTotal int    `json:"chunk_total"`
	URL        string `json:"url"`
}

// Chunk is the unit of retrieval: a bounded window of transcript text plus
// its provenance.
type Chunk struct {
	Text       string
	Provenance Provenance
}

type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// AnswerResult is produced per query and never persisted.
type AnswerResult struct {
	Answer  string
	Chunks  []ScoredChunk
	Sources string
}

// CollectionInfo describes the persisted vector collection.
type CollectionInfo struct {
	Name     string `json:"name"`
	Count    int    `json:"count"`
	Location string `json:"location"`
	Model    string `json:"model"`
}

// WatchURL builds the canonical watch URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

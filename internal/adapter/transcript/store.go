package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"ytrag/internal/domain"
)

// Store persists transcript artifacts under a directory: one plain-text file
// and one metadata JSON per video, both named by video ID.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) textPath(videoID string) string {
	return filepath.Join(s.dir, videoID+".txt")
}

func (s *Store) metadataPath(videoID string) string {
	return filepath.Join(s.dir, videoID+"_metadata.json")
}

// Save writes the raw text and the metadata record. Existing artifacts for
// the same video are overwritten.
func (s *Store) Save(record domain.TranscriptRecord) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create transcript directory: %w", err)
	}

	if err := os.WriteFile(s.textPath(record.VideoID), []byte(record.FullText), 0644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}

	meta, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(s.metadataPath(record.VideoID), meta, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	return nil
}

// Load reads the raw transcript text for a video.
func (s *Store) Load(videoID string) (string, error) {
	data, err := os.ReadFile(s.textPath(videoID))
	if err != nil {
		return "", fmt.Errorf("transcript not found for %s: %w", videoID, err)
	}
	return string(data), nil
}

// List returns the video IDs of every stored transcript, in directory
// iteration order. Metadata companions are not transcripts and are skipped.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("transcript directory not found: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if ok, _ := doublestar.Match("*.txt", name); !ok {
			continue
		}
		if ok, _ := doublestar.Match("*_metadata.json", name); ok {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".txt"))
	}

	return ids, nil
}

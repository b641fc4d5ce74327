package chunker

import (
	"ytrag/internal/adapter/transcript"
	"ytrag/internal/domain"
)

// Splitter cuts transcript text into overlapping fixed-size windows. Sizes
// are measured in runes. Splitting is deterministic: identical text and
// configuration always produce identical windows.
type Splitter struct {
	window  int
	overlap int
}

func NewSplitter(window, overlap int) *Splitter {
	if window <= 0 {
		window = 1000
	}
	if overlap < 0 || overlap >= window {
		overlap = window / 5
	}
	return &Splitter{window: window, overlap: overlap}
}

// Split produces the ordered chunk sequence for one transcript. Each window
// holds at most the configured size; a window after the first starts overlap
// runes before the previous window's end. Cuts prefer a paragraph break, then
// a line break, then a word break, falling back to a hard cut when the window
// contains none.
func (s *Splitter) Split(text, videoID string) []domain.Chunk {
	windows := s.split([]rune(text))
	if len(windows) == 0 {
		return nil
	}

	chunks := make([]domain.Chunk, len(windows))
	for i, w := range windows {
		chunks[i] = domain.Chunk{
			Text: w,
			Provenance: domain.Provenance{
				VideoID:    videoID,
				ChunkID:    i,
				ChunkTotal: len(windows),
				URL:        domain.WatchURL(videoID),
			},
		}
	}
	return chunks
}

// SplitDir loads every transcript artifact under dir and chunks each,
// concatenating results in directory iteration order. Fails when the
// directory does not exist.
func (s *Splitter) SplitDir(dir string) ([]domain.Chunk, error) {
	store := transcript.NewStore(dir)

	ids, err := store.List()
	if err != nil {
		return nil, err
	}

	var all []domain.Chunk
	for _, id := range ids {
		text, err := store.Load(id)
		if err != nil {
			return nil, err
		}
		all = append(all, s.Split(text, id)...)
	}
	return all, nil
}

func (s *Splitter) split(runes []rune) []string {
	if len(runes) == 0 {
		return nil
	}

	var windows []string
	start := 0

	for start < len(runes) {
		end := start + s.window
		if end >= len(runes) {
			windows = append(windows, string(runes[start:]))
			break
		}

		cut := start + snapPoint(runes[start:end])
		windows = append(windows, string(runes[start:cut]))

		next := cut - s.overlap
		if next <= start {
			// Overlap would stall the walk; advance past the cut instead.
			next = cut
		}
		start = next
	}

	return windows
}

var separators = [][]rune{{'\n', '\n'}, {'\n'}, {' '}}

// snapPoint returns the cut length for a full window, preferring the last
// paragraph, line, or word boundary. The separator stays in the window tail
// so no text is dropped between windows. A boundary at position 0 is ignored
// to guarantee progress.
func snapPoint(window []rune) int {
	for _, sep := range separators {
		for i := len(window) - len(sep); i > 0; i-- {
			if matchAt(window, i, sep) {
				return i + len(sep)
			}
		}
	}
	return len(window)
}

func matchAt(window []rune, at int, sep []rune) bool {
	for j, r := range sep {
		if window[at+j] != r {
			return false
		}
	}
	return true
}

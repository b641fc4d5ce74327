package usecase

import (
	"errors"
	"fmt"
	"strings"

	"ytrag/internal/adapter/chunker"
	"ytrag/internal/adapter/store"
	"ytrag/internal/adapter/transcript"
	"ytrag/internal/adapter/youtube"
	"ytrag/internal/domain"
	"ytrag/internal/port"
)

// IngestUseCase runs the ingestion path: fetch captions, persist transcript
// artifacts, chunk, embed, and index. Videos are processed one at a time;
// a failed video is reported and skipped.
type IngestUseCase struct {
	captions    port.CaptionProvider
	transcripts *transcript.Store
	splitter    *chunker.Splitter
	collection  *store.Collection

	opened bool
}

func NewIngestUseCase(
	captions port.CaptionProvider,
	transcripts *transcript.Store,
	splitter *chunker.Splitter,
	collection *store.Collection,
) *IngestUseCase {
	return &IngestUseCase{
		captions:    captions,
		transcripts: transcripts,
		splitter:    splitter,
		collection:  collection,
	}
}

// IngestResult contains the results of a batch ingestion.
type IngestResult struct {
	Ingested      []string
	ChunksIndexed int
	Errors        []string
}

// ProgressFunc reports batch progress to the caller.
type ProgressFunc func(done, total int, videoID string)

// Ingest fetches, stores, chunks, and indexes each identifier in order.
// Identifiers may be video IDs or watch/shortlink URLs. An overall error is
// returned only when every video fails.
func (u *IngestUseCase) Ingest(ids []string, progress ProgressFunc) (*IngestResult, error) {
	result := &IngestResult{}

	for i, raw := range ids {
		videoID := youtube.ExtractVideoID(strings.TrimSpace(raw))
		if videoID == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: empty video ID", raw))
			continue
		}

		count, err := u.ingestOne(videoID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", videoID, err))
		} else {
			result.Ingested = append(result.Ingested, videoID)
			result.ChunksIndexed += count
		}

		if progress != nil {
			progress(i+1, len(ids), videoID)
		}
	}

	if len(result.Ingested) == 0 && len(ids) > 0 {
		return result, fmt.Errorf("no videos ingested: %s", strings.Join(result.Errors, "; "))
	}
	return result, nil
}

func (u *IngestUseCase) ingestOne(videoID string) (int, error) {
	segments, err := u.captions.Fetch(videoID)
	if err != nil {
		return 0, err
	}

	record := buildRecord(videoID, segments)
	if err := u.transcripts.Save(record); err != nil {
		return 0, err
	}

	chunks := u.splitter.Split(record.FullText, videoID)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("transcript produced no chunks")
	}

	if err := u.index(chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}

// index appends to the collection, creating it on first use.
func (u *IngestUseCase) index(chunks []domain.Chunk) error {
	if !u.opened {
		err := u.collection.Load()
		switch {
		case err == nil:
			u.opened = true
		case errors.Is(err, store.ErrNotFound):
			if err := u.collection.Create(nil); err != nil {
				return err
			}
			u.opened = true
		default:
			return err
		}
	}
	return u.collection.Add(chunks)
}

// Reindex rebuilds the collection from every stored transcript artifact.
func (u *IngestUseCase) Reindex() (int, error) {
	chunks, err := u.splitter.SplitDir(u.transcripts.Dir())
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, fmt.Errorf("no transcripts to index in %s", u.transcripts.Dir())
	}

	if err := u.collection.Create(chunks); err != nil {
		return 0, err
	}
	u.opened = true
	return len(chunks), nil
}

// buildRecord normalizes caption segments into a transcript record: text is
// space-joined in original order, duration is the last segment's start plus
// its duration.
func buildRecord(videoID string, segments []port.CaptionSegment) domain.TranscriptRecord {
	texts := make([]string, len(segments))
	for i, s := range segments {
		texts[i] = s.Text
	}

	var duration float64
	if len(segments) > 0 {
		last := segments[len(segments)-1]
		duration = last.Start + last.Duration
	}

	return domain.TranscriptRecord{
		VideoID:      videoID,
		URL:          domain.WatchURL(videoID),
		FullText:     strings.Join(texts, " "),
		SegmentCount: len(segments),
		Duration:     duration,
	}
}

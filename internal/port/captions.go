package port

// CaptionSegment is one timed entry of a caption track.
type CaptionSegment struct {
	Text     string
	Start    float64
	Duration float64
}

// CaptionProvider fetches the caption track for a video.
type CaptionProvider interface {
	// Fetch returns the ordered caption segments for the given video ID.
	Fetch(videoID string) ([]CaptionSegment, error)
}

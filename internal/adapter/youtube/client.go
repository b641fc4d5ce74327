package youtube

import (
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"ytrag/internal/port"
)

var (
	// ErrCaptionsDisabled means the watch page carries no caption section at all.
	ErrCaptionsDisabled = errors.New("captions are disabled for this video")

	// ErrNoTranscript means caption tracks exist but none matches the
	// requested language.
	ErrNoTranscript = errors.New("no transcript found for this video")
)

// Client fetches caption tracks from YouTube. Two round trips per video: the
// public watch page to locate the track list, then the track's timedtext XML.
// Single attempt, no retries.
type Client struct {
	language string
	baseURL  string
	client   *http.Client
}

func NewClient(language string) *Client {
	return &Client{
		language: language,
		baseURL:  "https://www.youtube.com",
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(language, baseURL string) *Client {
	c := NewClient(language)
	c.baseURL = baseURL
	return c
}

// ExtractVideoID extracts the video ID from a YouTube URL. Inputs that are
// not recognizable URLs pass through unchanged and are assumed to already be
// IDs.
func ExtractVideoID(url string) string {
	if strings.Contains(url, "youtube.com") || strings.Contains(url, "youtu.be") {
		if i := strings.Index(url, "v="); i >= 0 {
			id := url[i+len("v="):]
			if j := strings.Index(id, "&"); j >= 0 {
				id = id[:j]
			}
			return id
		}
		if i := strings.Index(url, "youtu.be/"); i >= 0 {
			id := url[i+len("youtu.be/"):]
			if j := strings.Index(id, "?"); j >= 0 {
				id = id[:j]
			}
			return id
		}
	}
	return url
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// Fetch returns the ordered caption segments for the given video ID.
func (c *Client) Fetch(videoID string) ([]port.CaptionSegment, error) {
	tracks, err := c.listTracks(videoID)
	if err != nil {
		return nil, err
	}

	track, err := c.selectTrack(tracks)
	if err != nil {
		return nil, err
	}

	return c.fetchTrack(track.BaseURL)
}

func (c *Client) listTracks(videoID string) ([]captionTrack, error) {
	req, err := http.NewRequest("GET", c.baseURL+"/watch?v="+videoID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept-Language", "en-US")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch watch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("watch page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read watch page: %w", err)
	}

	const marker = `"captionTracks":`
	idx := strings.Index(string(body), marker)
	if idx < 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, ErrCaptionsDisabled)
	}

	var tracks []captionTrack
	dec := json.NewDecoder(strings.NewReader(string(body[idx+len(marker):])))
	if err := dec.Decode(&tracks); err != nil {
		return nil, fmt.Errorf("failed to parse caption track list: %w", err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("video %s: %w", videoID, ErrNoTranscript)
	}

	return tracks, nil
}

// selectTrack picks the track for the configured language, preferring
// manually created tracks over auto-generated ("asr") ones.
func (c *Client) selectTrack(tracks []captionTrack) (captionTrack, error) {
	candidates := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if c.language == "" || strings.HasPrefix(t.LanguageCode, c.language) {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return captionTrack{}, ErrNoTranscript
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Kind != "asr" && candidates[j].Kind == "asr"
	})
	return candidates[0], nil
}

type timedText struct {
	Texts []timedTextEntry `xml:"text"`
}

type timedTextEntry struct {
	Start    float64 `xml:"start,attr"`
	Duration float64 `xml:"dur,attr"`
	Body     string  `xml:",chardata"`
}

func (c *Client) fetchTrack(trackURL string) ([]port.CaptionSegment, error) {
	if strings.HasPrefix(trackURL, "/") {
		trackURL = c.baseURL + trackURL
	}

	resp, err := c.client.Get(trackURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch caption track: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("caption track returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read caption track: %w", err)
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return nil, fmt.Errorf("failed to parse caption track: %w", err)
	}

	segments := make([]port.CaptionSegment, 0, len(tt.Texts))
	for _, entry := range tt.Texts {
		text := strings.TrimSpace(html.UnescapeString(entry.Body))
		if text == "" {
			continue
		}
		segments = append(segments, port.CaptionSegment{
			Text:     text,
			Start:    entry.Start,
			Duration: entry.Duration,
		})
	}

	return segments, nil
}

package youtube

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractVideoID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"watch url", "https://www.youtube.com/watch?v=abc123", "abc123"},
		{"watch url with params", "https://www.youtube.com/watch?v=abc123&t=42s", "abc123"},
		{"shortlink", "https://youtu.be/abc123", "abc123"},
		{"shortlink with params", "https://youtu.be/abc123?t=5", "abc123"},
		{"bare id", "abc123", "abc123"},
		{"bare id with dash", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractVideoID(tt.input)
			if got != tt.want {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

const watchPageWithTracks = `<html><script>var ytInitialPlayerResponse = {"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":[{"baseUrl":"/api/timedtext?v=abc123&lang=en","languageCode":"en","kind":"asr"},{"baseUrl":"/api/timedtext?v=abc123&lang=en&manual=1","languageCode":"en"}]}}};</script></html>`

const timedTextBody = `<?xml version="1.0" encoding="utf-8"?>
<transcript>
  <text start="0.0" dur="2.5">hello world</text>
  <text start="2.5" dur="3.0">this is &amp;quot;a test&amp;quot;</text>
  <text start="5.5" dur="1.5"></text>
  <text start="7.0" dur="2.0">goodbye</text>
</transcript>`

func newStubServer(t *testing.T, watchBody string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			fmt.Fprint(w, watchBody)
		case "/api/timedtext":
			fmt.Fprint(w, timedTextBody)
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestFetchSegments(t *testing.T) {
	srv := newStubServer(t, watchPageWithTracks)
	defer srv.Close()

	client := NewClientWithBaseURL("en", srv.URL)

	segments, err := client.Fetch("abc123")
	if err != nil {
		t.Fatal(err)
	}

	if len(segments) != 3 {
		t.Fatalf("expected 3 segments (empty one skipped), got %d", len(segments))
	}

	if segments[0].Text != "hello world" {
		t.Errorf("unexpected first segment text: %q", segments[0].Text)
	}
	if segments[0].Start != 0 || segments[0].Duration != 2.5 {
		t.Errorf("unexpected first segment timing: start=%v dur=%v", segments[0].Start, segments[0].Duration)
	}

	last := segments[len(segments)-1]
	if last.Text != "goodbye" || last.Start != 7.0 || last.Duration != 2.0 {
		t.Errorf("unexpected last segment: %+v", last)
	}
}

func TestFetchPrefersManualTrack(t *testing.T) {
	// Both tracks match "en"; the non-asr one must win. The stub serves the
	// same body either way, so assert via track selection directly.
	client := NewClient("en")

	track, err := client.selectTrack([]captionTrack{
		{BaseURL: "/auto", LanguageCode: "en", Kind: "asr"},
		{BaseURL: "/manual", LanguageCode: "en"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if track.BaseURL != "/manual" {
		t.Errorf("expected manual track, got %q", track.BaseURL)
	}
}

func TestFetchCaptionsDisabled(t *testing.T) {
	srv := newStubServer(t, `<html>no captions section here</html>`)
	defer srv.Close()

	client := NewClientWithBaseURL("en", srv.URL)

	_, err := client.Fetch("abc123")
	if !errors.Is(err, ErrCaptionsDisabled) {
		t.Errorf("expected ErrCaptionsDisabled, got %v", err)
	}
}

func TestFetchNoTranscriptForLanguage(t *testing.T) {
	srv := newStubServer(t, watchPageWithTracks)
	defer srv.Close()

	client := NewClientWithBaseURL("de", srv.URL)

	_, err := client.Fetch("abc123")
	if !errors.Is(err, ErrNoTranscript) {
		t.Errorf("expected ErrNoTranscript, got %v", err)
	}
}

func TestFetchServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL("en", srv.URL)

	_, err := client.Fetch("abc123")
	if err == nil {
		t.Fatal("expected error for server fault")
	}
	if errors.Is(err, ErrCaptionsDisabled) || errors.Is(err, ErrNoTranscript) {
		t.Errorf("server fault must not map to a caption error, got %v", err)
	}
}

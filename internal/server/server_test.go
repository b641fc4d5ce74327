package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"ytrag/internal/adapter/chunker"
	"ytrag/internal/adapter/embedding"
	"ytrag/internal/adapter/store"
	"ytrag/internal/adapter/transcript"
	"ytrag/internal/port"
	"ytrag/internal/usecase"
)

type fakeCaptions struct {
	segments map[string][]port.CaptionSegment
}

func (f *fakeCaptions) Fetch(videoID string) ([]port.CaptionSegment, error) {
	segs, ok := f.segments[videoID]
	if !ok {
		return nil, fmt.Errorf("no captions for %s", videoID)
	}
	return segs, nil
}

type fakeGenerator struct {
	reply string
}

func (g *fakeGenerator) Generate(prompt string) (string, error) { return g.reply, nil }
func (g *fakeGenerator) ModelName() string                      { return "fake" }

func newTestServer(t *testing.T) *Server {
	t.Helper()

	captions := &fakeCaptions{segments: map[string][]port.CaptionSegment{
		"vid1": {
			{Text: "hello world from the test video", Start: 0, Duration: 5},
			{Text: "more caption text follows here", Start: 5, Duration: 5},
		},
	}}

	collection := store.NewCollection(t.TempDir(), "test", embedding.NewMockEmbedder(32))
	t.Cleanup(func() { collection.Close() })

	ingest := usecase.NewIngestUseCase(
		captions,
		transcript.NewStore(t.TempDir()),
		chunker.NewSplitter(50, 10),
		collection,
	)
	answer := usecase.NewAnswerUseCase(collection, &fakeGenerator{reply: "a grounded answer"}, 4)

	return New(ingest, answer, collection, zap.NewNop())
}

func doJSON(t *testing.T, s *Server, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON response: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, decoded
}

func TestStatusBeforeAnyIngest(t *testing.T) {
	s := newTestServer(t)

	rec, body := doJSON(t, s, http.MethodGet, "/api/status", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body["initialized"] != false {
		t.Errorf("expected initialized=false, got %v", body["initialized"])
	}
}

func TestIngestThenAsk(t *testing.T) {
	s := newTestServer(t)

	rec, body := doJSON(t, s, http.MethodPost, "/api/videos", `{"videos":["vid1"]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("ingest status = %d: %s", rec.Code, rec.Body.String())
	}
	ingested, _ := body["ingested"].([]any)
	if len(ingested) != 1 || ingested[0] != "vid1" {
		t.Errorf("unexpected ingest response: %v", body)
	}

	rec, body = doJSON(t, s, http.MethodGet, "/api/status", "")
	if body["initialized"] != true {
		t.Errorf("expected initialized=true after ingest, got %v", body)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}

	rec, body = doJSON(t, s, http.MethodPost, "/api/ask", `{"question":"what does the video say?","verbose":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("ask status = %d: %s", rec.Code, rec.Body.String())
	}
	if body["answer"] != "a grounded answer" {
		t.Errorf("unexpected answer %v", body["answer"])
	}
	sources, _ := body["sources"].(string)
	if !strings.Contains(sources, "Video ID: vid1") {
		t.Errorf("verbose ask missing citations: %v", body)
	}
}

func TestAskWithoutIndex(t *testing.T) {
	s := newTestServer(t)

	rec, body := doJSON(t, s, http.MethodPost, "/api/ask", `{"question":"anything?"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 before any ingest, got %d", rec.Code)
	}
	if msg, _ := body["error"].(string); !strings.Contains(msg, "no videos indexed") {
		t.Errorf("unexpected error body: %v", body)
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	s := newTestServer(t)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/ask", `{"question":"   "}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for blank question, got %d", rec.Code)
	}
}

func TestIngestNoVideos(t *testing.T) {
	s := newTestServer(t)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/videos", `{"videos":["  ", ""]}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty video list, got %d", rec.Code)
	}
}

func TestIngestAllVideosFail(t *testing.T) {
	s := newTestServer(t)

	rec, _ := doJSON(t, s, http.MethodPost, "/api/videos", `{"videos":["unknown"]}`)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("expected 502 when every video fails, got %d", rec.Code)
	}
}

func TestHomePage(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("home status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<html") {
		t.Error("home page did not render HTML")
	}
}

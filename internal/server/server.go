package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"ytrag/internal/adapter/store"
	"ytrag/internal/usecase"
)

// Server is the browser front end: ingest videos, ask questions, inspect the
// collection. All state lives on the struct so multiple servers can coexist
// in one process; there are no package-level singletons.
type Server struct {
	echo       *echo.Echo
	log        *zap.Logger
	ingest     *usecase.IngestUseCase
	answer     *usecase.AnswerUseCase
	collection *store.Collection
}

func New(
	ingest *usecase.IngestUseCase,
	answer *usecase.AnswerUseCase,
	collection *store.Collection,
	log *zap.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Recover())
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	s := &Server{
		echo:       e,
		log:        log,
		ingest:     ingest,
		answer:     answer,
		collection: collection,
	}

	e.GET("/", s.handleHome)
	e.POST("/api/videos", s.handleIngest)
	e.POST("/api/ask", s.handleAsk)
	e.GET("/api/status", s.handleStatus)

	return s
}

// Start blocks serving HTTP on addr.
func (s *Server) Start(addr string) error {
	s.log.Info("starting server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

type ingestRequest struct {
	Videos []string `json:"videos"`
}

type ingestResponse struct {
	Ingested []string `json:"ingested"`
	Chunks   int      `json:"chunks"`
	Errors   []string `json:"errors,omitempty"`
}

func (s *Server) handleIngest(c echo.Context) error {
	var req ingestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}

	ids := make([]string, 0, len(req.Videos))
	for _, v := range req.Videos {
		if v = strings.TrimSpace(v); v != "" {
			ids = append(ids, v)
		}
	}
	if len(ids) == 0 {
		return c.JSON(http.StatusBadRequest, errorBody("no video IDs provided"))
	}

	result, err := s.ingest.Ingest(ids, nil)
	if err != nil {
		s.log.Warn("ingestion failed", zap.Strings("videos", ids), zap.Error(err))
		return c.JSON(http.StatusBadGateway, errorBody(err.Error()))
	}

	s.log.Info("videos ingested",
		zap.Int("videos", len(result.Ingested)),
		zap.Int("chunks", result.ChunksIndexed),
	)
	return c.JSON(http.StatusOK, ingestResponse{
		Ingested: result.Ingested,
		Chunks:   result.ChunksIndexed,
		Errors:   result.Errors,
	})
}

type askRequest struct {
	Question string `json:"question"`
	Verbose  bool   `json:"verbose"`
}

type askResponse struct {
	Answer  string `json:"answer"`
	Sources string `json:"sources,omitempty"`
}

func (s *Server) handleAsk(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if strings.TrimSpace(req.Question) == "" {
		return c.JSON(http.StatusBadRequest, errorBody("question is required"))
	}

	result, err := s.answer.Answer(req.Question)
	if err != nil {
		if errors.Is(err, store.ErrNotInitialized) {
			return c.JSON(http.StatusConflict, errorBody("no videos indexed yet; add videos first"))
		}
		s.log.Warn("answer failed", zap.String("question", req.Question), zap.Error(err))
		return c.JSON(http.StatusBadGateway, errorBody(err.Error()))
	}

	resp := askResponse{Answer: result.Answer}
	if req.Verbose {
		resp.Sources = result.Sources
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleStatus(c echo.Context) error {
	info, err := s.collection.Info()
	if err != nil {
		if errors.Is(err, store.ErrNotInitialized) {
			return c.JSON(http.StatusOK, map[string]any{"initialized": false, "count": 0})
		}
		return c.JSON(http.StatusInternalServerError, errorBody(err.Error()))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"initialized": true,
		"name":        info.Name,
		"count":       info.Count,
		"location":    info.Location,
		"model":       info.Model,
	})
}

func (s *Server) handleHome(c echo.Context) error {
	return c.HTML(http.StatusOK, homePage)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ytrag/internal/adapter/chunker"
	"ytrag/internal/adapter/store"
	"ytrag/internal/adapter/transcript"
	"ytrag/internal/adapter/youtube"
	"ytrag/internal/server"
	"ytrag/internal/usecase"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the browser front end",
	Long: `Serve a small web UI plus a JSON API for ingesting videos, asking
questions, and inspecting the collection.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Ingest and answer share one collection handle so chunks added through
	// the API are immediately searchable.
	collection, err := newCollection(cfg)
	if err != nil {
		return err
	}
	if err := collection.Load(); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		logger.Warn("no collection yet; ingest videos to create one",
			zap.String("location", cfg.Index.Dir))
	}
	defer collection.Close()

	generator, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	ingestUC := usecase.NewIngestUseCase(
		youtube.NewClient(cfg.Captions.Language),
		transcript.NewStore(cfg.Transcripts.Dir),
		chunker.NewSplitter(cfg.Chunk.Size, cfg.Chunk.Overlap),
		collection,
	)
	answerUC := usecase.NewAnswerUseCase(collection, generator, cfg.Retrieve.TopK)

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	srv := server.New(ingestUC, answerUC, collection, logger)
	return srv.Start(addr)
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if level != "" {
		parsed, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		zcfg.Level = parsed
	}
	return zcfg.Build()
}

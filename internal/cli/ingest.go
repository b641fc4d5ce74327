package cli

import (
	"fmt"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <video-id-or-url>...",
	Short: "Fetch, chunk, and index video transcripts",
	Long: `Fetch the caption track for each video, store the transcript
artifacts, and embed the chunks into the vector collection. Videos that fail
(captions disabled, no transcript, network fault) are reported and skipped.

Examples:
  ytrag ingest dQw4w9WgXcQ
  ytrag ingest "https://www.youtube.com/watch?v=abc123" "https://youtu.be/def456"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ingestUC, err := newIngestUseCase(GetConfig())
	if err != nil {
		return err
	}

	bar := progressbar.NewOptions(len(args),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowBytes(false),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Ingesting[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	result, err := ingestUC.Ingest(args, func(done, total int, videoID string) {
		bar.Set(done)
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("\nIngestion complete:\n")
	fmt.Printf("  Videos ingested: %d\n", len(result.Ingested))
	fmt.Printf("  Chunks indexed:  %d\n", result.ChunksIndexed)

	if len(result.Errors) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	return nil
}

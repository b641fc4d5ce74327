package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the vector collection from stored transcripts",
	Long: `Chunk every transcript artifact in the transcript directory and
rebuild the vector collection from scratch. Use after changing the chunking
configuration or the embedding model.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	ingestUC, err := newIngestUseCase(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("Rebuilding collection from %s...\n", cfg.Transcripts.Dir)

	count, err := ingestUC.Reindex()
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	fmt.Printf("Indexed %d chunks into %s\n", count, cfg.Index.Dir)
	return nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"ytrag/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ytrag",
	Short: "RAG chatbot over YouTube video transcripts",
	Long: `ytrag fetches YouTube caption tracks, chunks and embeds them into a
persisted vector collection, and answers questions grounded only in the
retrieved transcript context.

Example usage:
  ytrag ingest dQw4w9WgXcQ           # Fetch, chunk, and index a video
  ytrag ask -q "What is discussed?"  # One-shot question
  ytrag chat                         # Interactive loop
  ytrag serve                        # Browser front end`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			wd, werr := os.Getwd()
			if werr != nil {
				return fmt.Errorf("failed to get working directory: %w", werr)
			}
			cfg, err = config.LoadFromDir(wd)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./ytrag.yaml)")
}

func GetConfig() *config.Config {
	return cfg
}

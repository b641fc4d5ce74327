package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"ytrag/internal/adapter/store"
)

var (
	askQuestion string
	askSources  bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a single question against the indexed transcripts",
	Long: `Retrieve the most relevant transcript chunks for the question and
generate a grounded answer with the configured backend.

Examples:
  ytrag ask -q "What is the main argument of the talk?"
  ytrag ask -q "Which tools are recommended?" --sources`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to ask (required)")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "include the citation list")
	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	answerUC, collection, err := newAnswerUseCase(cfg)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no collection found. Run 'ytrag ingest' first")
		}
		return err
	}
	defer collection.Close()

	response, err := answerUC.Chat(askQuestion, askSources)
	if err != nil {
		return err
	}

	fmt.Println(response)
	return nil
}

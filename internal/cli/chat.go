package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"ytrag/internal/adapter/store"
)

var chatNoSources bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question loop over the indexed transcripts",
	Long: `Read questions from stdin, answer each from the indexed transcript
context, and exit on "exit", "quit", or "bye".`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().BoolVar(&chatNoSources, "no-sources", false, "omit the citation list")
}

func runChat(cmd *cobra.Command, args []string) error {
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

	info, err := collection.Info()
	if err != nil {
		return err
	}
	fmt.Printf("Collection %q loaded: %d chunks\n", info.Name, info.Count)
	fmt.Println("Ask questions about the indexed videos. Type 'exit' to quit.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}

		question := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(question) {
		case "exit", "quit", "bye":
			fmt.Println("Goodbye!")
			return nil
		case "":
			continue
		}

		response, err := answerUC.Chat(question, !chatNoSources)
		if err != nil {
			fmt.Printf("Error: %v\n\n", err)
			continue
		}

		fmt.Printf("\nBot: %s\n\n", response)
	}

	return scanner.Err()
}

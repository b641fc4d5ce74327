package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"ytrag/internal/adapter/store"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect or delete the vector collection",
}

var dbInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show collection name, chunk count, and location",
	RunE:  runDBInfo,
}

var dbDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the persisted collection",
	RunE:  runDBDelete,
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbInfoCmd)
	dbCmd.AddCommand(dbDeleteCmd)
}

func runDBInfo(cmd *cobra.Command, args []string) error {
	collection, err := newCollection(GetConfig())
	if err != nil {
		return err
	}
	if err := collection.Load(); err != nil {
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

	fmt.Printf("Collection: %s\n", info.Name)
	fmt.Printf("  Chunks:   %d\n", info.Count)
	fmt.Printf("  Location: %s\n", info.Location)
	fmt.Printf("  Model:    %s\n", info.Model)
	return nil
}

func runDBDelete(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	collection, err := newCollection(cfg)
	if err != nil {
		return err
	}

	removed, err := collection.Delete()
	if err != nil {
		return err
	}
	if removed {
		fmt.Printf("Collection deleted from %s\n", cfg.Index.Dir)
	} else {
		fmt.Println("No collection found to delete")
	}
	return nil
}

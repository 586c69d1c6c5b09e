package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	ingestSourceID string
	ingestJSON     bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a document into the knowledge store",
	Long: `Reads a text file, splits it into chunks, embeds them, and stores
them for retrieval. Resubmitting the same source id replaces its
previously stored chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

var ingestDeleteCmd = &cobra.Command{
	Use:   "delete [source-id]",
	Short: "Delete all stored chunks of a source",
	Args:  cobra.ExactArgs(1),
	RunE:  runIngestDelete,
}

var ingestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested sources",
	Args:  cobra.NoArgs,
	RunE:  runIngestList,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSourceID, "source", "", "source id (defaults to the file name)")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output the receipt as JSON")
	ingestCmd.AddCommand(ingestDeleteCmd)
	ingestCmd.AddCommand(ingestListCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	sourceID := ingestSourceID
	if sourceID == "" {
		sourceID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	receipt, err := ingestService.Submit(context.Background(), sourceID, string(data))
	if err != nil {
		if receipt != nil && ingestJSON {
			// A partial receipt still prints before the error surfaces.
			printJSON(cmd, receipt) //nolint:errcheck
		}
		return fmt.Errorf("ingest failed: %w", err)
	}

	if ingestJSON {
		return printJSON(cmd, receipt)
	}

	cmd.Printf("Ingested %q: %d/%d chunks stored", receipt.SourceID, receipt.SuccessfulChunks, receipt.TotalChunks)
	if receipt.FailedChunks > 0 {
		cmd.Printf(" (%d failed)", receipt.FailedChunks)
	}
	cmd.Println()
	cmd.Printf("  Language: %s, embedding dimensions: %d\n", receipt.Language, receipt.Dimensions)
	return nil
}

func runIngestDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	deleted, err := ingestService.Delete(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}

	cmd.Printf("Deleted %d chunks of %q\n", deleted, args[0])
	return nil
}

func runIngestList(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	sources, err := ingestService.ListSources(context.Background())
	if err != nil {
		return fmt.Errorf("listing sources failed: %w", err)
	}

	if len(sources) == 0 {
		cmd.Println("No sources ingested.")
		return nil
	}
	for _, id := range sources {
		cmd.Println(id)
	}
	return nil
}

// printJSON renders any value as indented JSON on the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

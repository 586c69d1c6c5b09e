package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	retrieveLimit   int
	retrieveJSON    bool
	retrieveInspect bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Retrieve stored chunks relevant to a query",
	Long: `Embeds the query and returns the most similar stored chunks.
With --inspect, also shows the context blob the chat path would
assemble for the same query.`,
	Args: cobra.ExactArgs(1),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveLimit, "limit", "n", 5, "maximum number of results")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output results as JSON")
	retrieveCmd.Flags().BoolVar(&retrieveInspect, "inspect", false, "show the assembled generation context too")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	query := args[0]
	ctx := context.Background()

	if retrieveInspect {
		inspection, err := retrievalService.Inspect(ctx, query)
		if err != nil {
			return fmt.Errorf("inspect failed: %w", err)
		}
		if retrieveJSON {
			return printJSON(cmd, inspection)
		}

		cmd.Printf("Raw documents: %d\n", inspection.RawDocumentCount)
		cmd.Printf("Context documents: %d (%d characters)\n",
			inspection.Context.TotalDocuments, inspection.Context.Length)
		for _, src := range inspection.Context.Sources {
			cmd.Printf("  %s [chunk %d] score %.4f\n", src.SourceID, src.ChunkIndex, src.Score)
		}
		if inspection.Context.Text != "" {
			cmd.Println()
			cmd.Println(inspection.Context.Text)
		}
		return nil
	}

	docs, err := retrievalService.Retrieve(ctx, query, retrieveLimit)
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if retrieveJSON {
		return printJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No matching chunks found.")
		return nil
	}

	for i, doc := range docs {
		cmd.Printf("  [%d] %s [chunk %d/%d] (%.4f)\n",
			i+1, doc.SourceID, doc.Index+1, doc.TotalChunks, doc.Score)
		cmd.Printf("      %s\n", preview(doc.Text, 160))
		cmd.Println()
	}
	return nil
}

// preview truncates text to at most n runes for terminal display.
func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

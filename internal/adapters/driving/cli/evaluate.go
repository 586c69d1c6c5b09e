package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var evaluateJSON bool

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [query] [answer]",
	Short: "Score an answer against the retrievable context",
	Long: `Retrieves context for the query, then judges whether the given
answer is grounded in that context and whether the retrieved documents
are relevant to the query.`,
	Args: cobra.ExactArgs(2),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().BoolVar(&evaluateJSON, "json", false, "output the evaluation as JSON")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	if evaluationService == nil {
		return errors.New("evaluation service not configured")
	}
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	query, answer := args[0], args[1]
	ctx := context.Background()

	docs, ragCtx, err := retrievalService.RetrieveForGeneration(ctx, query)
	if err != nil {
		return fmt.Errorf("retrieving context: %w", err)
	}

	result, err := evaluationService.Evaluate(ctx, query, answer, ragCtx.Text, docs)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if evaluateJSON {
		return printJSON(cmd, result)
	}

	cmd.Printf("Quality: %s (%.2f)\n", result.Quality, result.OverallScore)
	cmd.Println()
	cmd.Printf("Groundedness: %.2f (supported: %t)\n", result.Groundedness.Score, result.Groundedness.Supported)
	cmd.Printf("  %s\n", result.Groundedness.Analysis)
	cmd.Println()
	cmd.Printf("Relevance: %.2f (%d/%d documents relevant)\n",
		result.Relevance.Score, result.Relevance.RelevantDocs, result.Relevance.TotalDocs)
	cmd.Printf("  %s\n", result.Relevance.Analysis)
	return nil
}

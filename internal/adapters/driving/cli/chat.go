package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mhire/khoji/internal/core/domain"
)

var (
	chatSessionID string
	chatEvaluate  bool
	chatJSON      bool
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask a question grounded in the ingested documents",
	Long: `Retrieves relevant context for the message and generates an answer
conditioned on it. The conversation history is kept per session id;
pass --session to continue an earlier conversation.`,
	Args: cobra.ExactArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "session id (a new one is generated if omitted)")
	chatCmd.Flags().BoolVar(&chatEvaluate, "evaluate", false, "also score the answer for groundedness and relevance")
	chatCmd.Flags().BoolVar(&chatJSON, "json", false, "output the turn as JSON")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	sessionID := chatSessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx := context.Background()

	if chatEvaluate {
		turn, err := chatService.AskWithEvaluation(ctx, sessionID, args[0])
		if err != nil {
			return fmt.Errorf("chat failed: %w", err)
		}
		if chatJSON {
			return printJSON(cmd, turn)
		}

		printTurnHeader(cmd, turn.SessionID, turn.Answer)
		cmd.Println()
		ev := turn.Evaluation
		cmd.Printf("Quality: %s (%.2f)\n", ev.Quality, ev.OverallScore)
		cmd.Printf("  Groundedness: %.2f (supported: %t)\n", ev.Groundedness.Score, ev.Groundedness.Supported)
		cmd.Printf("  Relevance: %.2f (%d/%d documents relevant)\n",
			ev.Relevance.Score, ev.Relevance.RelevantDocs, ev.Relevance.TotalDocs)
		printSources(cmd, turn.Sources)
		return nil
	}

	turn, err := chatService.Ask(ctx, sessionID, args[0])
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}
	if chatJSON {
		return printJSON(cmd, turn)
	}

	printTurnHeader(cmd, turn.SessionID, turn.Answer)
	printSources(cmd, turn.Sources)
	return nil
}

func printTurnHeader(cmd *cobra.Command, sessionID, answer string) {
	cmd.Println(answer)
	cmd.Println()
	cmd.Printf("Session: %s\n", sessionID)
}

func printSources(cmd *cobra.Command, sources []domain.SourceAttribution) {
	if len(sources) == 0 {
		return
	}
	cmd.Println("Sources:")
	for _, src := range sources {
		cmd.Printf("  %s [chunk %d] score %.4f\n", src.SourceID, src.ChunkIndex+1, src.Score)
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List chat sessions",
	Args:  cobra.NoArgs,
	RunE:  runSessions,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show a session's conversation history",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsClearCmd = &cobra.Command{
	Use:   "clear [session-id]",
	Short: "Delete a session and its history",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsClear,
}

func init() {
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsClearCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	ids, err := chatService.Sessions(context.Background())
	if err != nil {
		return fmt.Errorf("listing sessions failed: %w", err)
	}

	if len(ids) == 0 {
		cmd.Println("No sessions.")
		return nil
	}
	for _, id := range ids {
		cmd.Println(id)
	}
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	session, err := chatService.History(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("loading session failed: %w", err)
	}

	cmd.Printf("Session %s", session.ID)
	if session.Language != "" {
		cmd.Printf(" (%s)", session.Language)
	}
	cmd.Println()
	for _, msg := range session.Messages {
		cmd.Printf("[%s] %s\n", msg.Role, msg.Content)
	}
	return nil
}

func runSessionsClear(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	if err := chatService.ClearSession(context.Background(), args[0]); err != nil {
		return fmt.Errorf("clearing session failed: %w", err)
	}
	cmd.Printf("Cleared session %s\n", args[0])
	return nil
}

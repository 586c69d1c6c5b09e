// Package cli provides the command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mhire/khoji/internal/core/ports/driving"
	"github.com/mhire/khoji/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Injected driving services. Commands check for nil and fail with a
// configuration error rather than panicking.
var (
	ingestService     driving.IngestService
	retrievalService  driving.RetrievalService
	chatService       driving.ChatService
	evaluationService driving.EvaluationService
	settingsService   driving.SettingsService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "khoji",
	Short: "Bengali-first retrieval-augmented chat over your documents",
	Long: `Khoji ingests documents into an embedded chunk store and answers
questions about them, grounded in the retrieved text. Bengali, English,
and mixed-language queries are handled with language-matched prompts.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Services bundles the driving services the CLI needs.
type Services struct {
	Ingest     driving.IngestService
	Retrieval  driving.RetrievalService
	Chat       driving.ChatService
	Evaluation driving.EvaluationService
	Settings   driving.SettingsService
}

// SetServices injects the driving services before Execute.
func SetServices(s Services) {
	ingestService = s.Ingest
	retrievalService = s.Retrieval
	chatService = s.Chat
	evaluationService = s.Evaluation
	settingsService = s.Settings
}

// SetVersion overrides the reported version (set from main via ldflags).
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

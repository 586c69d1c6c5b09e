package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mhire/khoji/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, chunking, and retrieval options.

Use subcommands to configure specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used for ingestion and retrieval.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used for answer generation and evaluation.`,
	RunE:  runSettingsLLM,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	printProviderSettings(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())
	cmd.Println()

	cmd.Println("[LLM]")
	printProviderSettings(cmd, settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Max length: %d characters\n", settings.Chunking.MaxLength)
	cmd.Printf("  Batch size: %d\n", settings.Chunking.BatchSize)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Limit: %d\n", settings.Retrieval.Limit)
	cmd.Printf("  Candidate multiplier: %d\n", settings.Retrieval.CandidateMultiplier)
	cmd.Printf("  Generation threshold: %.2f\n", settings.Retrieval.GenerationThreshold)
	cmd.Printf("  Listing threshold: %.2f\n", settings.Retrieval.ListingThreshold)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'khoji settings embedding' or 'khoji settings llm' to configure.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printProviderSettings(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model: %s\n", model)
	if provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select Embedding Provider")
	providers := domain.AllEmbeddingProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := domain.DefaultEmbeddingModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	apiKey, err := promptAPIKey(cmd, selected)
	if err != nil {
		return err
	}

	if err := settingsService.SetEmbeddingProvider(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure embedding provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("embedding configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Embedding provider configured: %s (%s)\n", selected.Description(), model)
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	apiKey, err := promptAPIKey(cmd, selected)
	if err != nil {
		return err
	}

	if err := settingsService.SetLLMProvider(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n", selected.Description(), model)
	return nil
}

// promptAPIKey reads an API key for cloud providers. An empty entry is
// allowed when the provider's environment variable carries the key.
func promptAPIKey(cmd *cobra.Command, provider domain.AIProvider) (string, error) {
	if !provider.RequiresAPIKey() {
		return "", nil
	}
	cmd.Print("Enter API key (empty to use the environment variable): ")
	apiKey := readPassword()
	cmd.Println()
	return apiKey, nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

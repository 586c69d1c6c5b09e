// Command khoji is a Bengali-first retrieval-augmented chat CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/mhire/khoji/internal/adapters/driven/ai"
	"github.com/mhire/khoji/internal/adapters/driven/config/file"
	"github.com/mhire/khoji/internal/adapters/driven/storage/memory"
	"github.com/mhire/khoji/internal/adapters/driven/storage/sqlite"
	"github.com/mhire/khoji/internal/adapters/driving/cli"
	"github.com/mhire/khoji/internal/core/services"
	"github.com/mhire/khoji/internal/logger"
	"github.com/mhire/khoji/internal/textproc/chunker"
)

// Build-time version, set via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	promptStore, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("opening prompt store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	store, err := sqlite.NewStore(configStore.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("opening chunk store: %w", err)
	}
	defer store.Close()

	sessionStore := memory.NewSessionStore()

	// AI services are optional at startup. Commands that need a missing
	// one fail with a configuration error instead.
	embedder, err := ai.CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		logger.Warn("Embedding provider unavailable: %v", err)
	}
	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil {
		logger.Warn("LLM provider unavailable: %v", err)
	}
	if embedder != nil {
		defer embedder.Close()
	}
	if llm != nil {
		defer llm.Close()
	}

	wired := cli.Services{Settings: settingsService}

	if embedder != nil {
		wired.Ingest = services.NewIngestService(store, embedder,
			services.WithBatchSize(settings.Chunking.BatchSize),
			services.WithChunker(chunker.New(chunker.WithMaxLength(settings.Chunking.MaxLength))),
		)

		retrieval := services.NewRetrievalService(embedder, store,
			services.WithRetrievalSettings(settings.Retrieval),
		)
		wired.Retrieval = retrieval

		if llm != nil {
			evaluation := services.NewEvaluationService(llm)
			evaluation.SetPromptStore(promptStore)
			wired.Evaluation = evaluation

			chat := services.NewChatService(retrieval, llm, sessionStore, evaluation)
			chat.SetPromptStore(promptStore)
			wired.Chat = chat
		}
	}

	cli.SetServices(wired)
	cli.SetVersion(version)

	return cli.Execute()
}

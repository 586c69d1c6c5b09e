// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/mhire/khoji/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/mhire/khoji/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/mhire/khoji/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/mhire/khoji/internal/adapters/driven/llm/ollama"
	openaillm "github.com/mhire/khoji/internal/adapters/driven/llm/openai"
	"github.com/mhire/khoji/internal/core/domain"
	"github.com/mhire/khoji/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// modelDimensions maps known embedding models to their vector sizes.
// Unknown models fall back to the adapter's default.
var modelDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
	"nomic-embed-text":       768,
	"mxbai-embed-large":      1024,
	"all-minilm":             384,
}

// CreateEmbeddingService creates the embedding service for the
// configured provider. Returns nil without error when the provider is
// not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: modelDimensions[settings.Model],
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: modelDimensions[settings.Model],
		})

	case domain.AIProviderAnthropic:
		// Anthropic does not offer an embeddings API.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the LLM service for the configured provider.
// Returns nil without error when the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and
// verifies connectivity before handing it to the caller.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}
	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and verifies
// connectivity before handing it to the caller.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return svc, nil
}

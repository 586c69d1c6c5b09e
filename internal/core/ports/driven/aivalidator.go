package driven

import "github.com/mhire/khoji/internal/core/domain"

// AIConfigValidator verifies provider configurations by testing
// connectivity to the underlying AI services.
type AIConfigValidator interface {
	// ValidateEmbedding validates an embedding configuration by pinging
	// the provider. Returns nil when valid or not configured.
	ValidateEmbedding(settings *domain.EmbeddingSettings) error

	// ValidateLLM validates an LLM configuration by pinging the
	// provider. Returns nil when valid or not configured.
	ValidateLLM(settings *domain.LLMSettings) error
}

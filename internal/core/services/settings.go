package services

import (
	"fmt"
	"os"

	"github.com/mhire/khoji/internal/core/domain"
	"github.com/mhire/khoji/internal/core/ports/driven"
	"github.com/mhire/khoji/internal/core/ports/driving"
)

var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider = "embedding.provider"
	keyEmbedModel    = "embedding.model"
	keyEmbedBaseURL  = "embedding.base_url"
	keyEmbedAPIKey   = "embedding.api_key"
	keyLLMProvider   = "llm.provider"
	keyLLMModel      = "llm.model"
	keyLLMBaseURL    = "llm.base_url"
	keyLLMAPIKey     = "llm.api_key"
	keyChunkMaxLen   = "chunking.max_length"
	keyChunkBatch    = "chunking.batch_size"
	keyRetLimit      = "retrieval.limit"
	keyRetCandidates = "retrieval.candidate_multiplier"
	keyRetGenThresh  = "retrieval.generation_threshold"
	keyRetListThresh = "retrieval.listing_threshold"
)

// Environment variables consulted when no API key is stored.
const (
	envOpenAIKey    = "OPENAI_API_KEY"
	envAnthropicKey = "ANTHROPIC_API_KEY"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings. Stored values win over
// defaults; API keys missing from the store fall back to the provider's
// conventional environment variable.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL),
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Chunking: domain.ChunkingSettings{
			MaxLength: s.getInt(keyChunkMaxLen, defaults.Chunking.MaxLength),
			BatchSize: s.getInt(keyChunkBatch, defaults.Chunking.BatchSize),
		},
		Retrieval: domain.RetrievalSettings{
			Limit:               s.getInt(keyRetLimit, defaults.Retrieval.Limit),
			CandidateMultiplier: s.getInt(keyRetCandidates, defaults.Retrieval.CandidateMultiplier),
			GenerationThreshold: s.getFloat(keyRetGenThresh, defaults.Retrieval.GenerationThreshold),
			ListingThreshold:    s.getFloat(keyRetListThresh, defaults.Retrieval.ListingThreshold),
		},
	}

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = envAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = envAPIKey(settings.LLM.Provider)
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	if err := s.configStore.Set(keyChunkMaxLen, settings.Chunking.MaxLength); err != nil {
		return fmt.Errorf("save chunking max_length: %w", err)
	}
	if err := s.configStore.Set(keyChunkBatch, settings.Chunking.BatchSize); err != nil {
		return fmt.Errorf("save chunking batch_size: %w", err)
	}

	if err := s.configStore.Set(keyRetLimit, settings.Retrieval.Limit); err != nil {
		return fmt.Errorf("save retrieval limit: %w", err)
	}
	if err := s.configStore.Set(keyRetCandidates, settings.Retrieval.CandidateMultiplier); err != nil {
		return fmt.Errorf("save retrieval candidate_multiplier: %w", err)
	}
	if err := s.configStore.Set(keyRetGenThresh, settings.Retrieval.GenerationThreshold); err != nil {
		return fmt.Errorf("save retrieval generation_threshold: %w", err)
	}
	if err := s.configStore.Set(keyRetListThresh, settings.Retrieval.ListingThreshold); err != nil {
		return fmt.Errorf("save retrieval listing_threshold: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	supported := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" && envAPIKey(provider) == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	if model == "" {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" && envAPIKey(provider) == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = model
	if model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that both AI providers are configured. Ingestion and
// retrieval need the embedder, chat additionally needs the LLM.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider is not configured")
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("llm provider is not configured")
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig checks the embedding configuration by pinging
// the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig checks the LLM configuration by pinging the
// provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	val := s.configStore.GetFloat(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

// envAPIKey returns the conventional environment API key for a cloud
// provider, empty otherwise.
func envAPIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return os.Getenv(envOpenAIKey)
	case domain.AIProviderAnthropic:
		return os.Getenv(envAnthropicKey)
	default:
		return ""
	}
}

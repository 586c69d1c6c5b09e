package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhire/khoji/internal/adapters/driven/storage/memory"
	"github.com/mhire/khoji/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	require.NotNil(t, settings)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, defaults.Chunking.MaxLength, settings.Chunking.MaxLength)
	assert.Equal(t, defaults.Chunking.BatchSize, settings.Chunking.BatchSize)
	assert.Equal(t, defaults.Retrieval.Limit, settings.Retrieval.Limit)
	assert.Equal(t, defaults.Retrieval.GenerationThreshold, settings.Retrieval.GenerationThreshold)
	assert.Equal(t, defaults.Retrieval.ListingThreshold, settings.Retrieval.ListingThreshold)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.model", "text-embedding-3-large")
	_ = store.Set("embedding.api_key", "sk-test")
	_ = store.Set("retrieval.generation_threshold", 0.55)
	_ = store.Set("chunking.max_length", 2000)

	service := NewSettingsService(store, nil)
	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.Equal(t, 0.55, settings.Retrieval.GenerationThreshold)
	assert.Equal(t, 2000, settings.Chunking.MaxLength)
}

func TestSettingsService_Get_InvalidProviderFallsBack(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "invalid_provider")

	service := NewSettingsService(store, nil)
	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings().Embedding.Provider, settings.Embedding.Provider)
}

func TestSettingsService_Get_APIKeyFallsBackToEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "openai")

	service := NewSettingsService(store, nil)
	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", settings.LLM.APIKey)
}

func TestSettingsService_Get_StoredKeyWinsOverEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "sk-from-env")

	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "anthropic")
	_ = store.Set("llm.api_key", "sk-stored")

	service := NewSettingsService(store, nil)
	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "sk-stored", settings.LLM.APIKey)
}

func TestSettingsService_Save_RoundTrips(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := service.GetDefaults()
	settings.Embedding.Provider = domain.AIProviderOllama
	settings.Embedding.Model = "nomic-embed-text"
	settings.Embedding.BaseURL = "http://localhost:11434"
	settings.LLM.Provider = domain.AIProviderOllama
	settings.LLM.Model = "llama3.2"
	settings.LLM.BaseURL = "http://localhost:11434"
	settings.Retrieval.ListingThreshold = 0.6

	require.NoError(t, service.Save(&settings))

	loaded, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, loaded.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", loaded.Embedding.Model)
	assert.Equal(t, "http://localhost:11434", loaded.LLM.BaseURL)
	assert.Equal(t, 0.6, loaded.Retrieval.ListingThreshold)
}

func TestSettingsService_Save_SkipsEmptyAPIKeys(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.api_key", "sk-existing")

	service := NewSettingsService(store, nil)
	settings := service.GetDefaults()
	settings.LLM.Provider = domain.AIProviderOpenAI
	settings.LLM.APIKey = ""

	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "sk-existing", store.GetString("llm.api_key"))
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	tests := []struct {
		name     string
		provider domain.AIProvider
		model    string
		apiKey   string
		wantErr  string
	}{
		{
			name:     "ollama with default model",
			provider: domain.AIProviderOllama,
		},
		{
			name:     "openai with key",
			provider: domain.AIProviderOpenAI,
			model:    "text-embedding-3-small",
			apiKey:   "sk-test",
		},
		{
			name:     "openai without key",
			provider: domain.AIProviderOpenAI,
			wantErr:  "API key required",
		},
		{
			name:     "anthropic has no embeddings",
			provider: domain.AIProviderAnthropic,
			apiKey:   "sk-test",
			wantErr:  "does not support embeddings",
		},
		{
			name:     "unknown provider",
			provider: domain.AIProvider("bogus"),
			wantErr:  "invalid embedding provider",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store, nil)

			err := service.SetEmbeddingProvider(tt.provider, tt.model, tt.apiKey)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.Embedding.Provider)
			assert.NotEmpty(t, settings.Embedding.Model)
		})
	}
}

func TestSettingsService_SetEmbeddingProvider_LocalGetsBaseURL(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")

	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	err := service.SetLLMProvider(domain.AIProviderAnthropic, "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key required")

	require.NoError(t, service.SetLLMProvider(domain.AIProviderAnthropic, "", "sk-test"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, "claude-3-5-sonnet-latest", settings.LLM.Model)
	assert.Empty(t, settings.LLM.BaseURL)
}

func TestSettingsService_SetLLMProvider_EnvKeySuffices(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderOpenAI, "gpt-4o-mini", ""))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "sk-from-env", settings.LLM.APIKey)
}

func TestSettingsService_Validate(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ANTHROPIC_API_KEY", "")

	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	// Defaults leave both providers unconfigured.
	err := service.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding provider is not configured")

	require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))
	err = service.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "llm provider is not configured")

	require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "", ""))
	assert.NoError(t, service.Validate())
}

func TestSettingsService_ValidateConfigs_NilValidator(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	assert.NoError(t, service.ValidateEmbeddingConfig())
	assert.NoError(t, service.ValidateLLMConfig())
}

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhire/khoji/internal/core/domain"
)

// stubSettings implements driving.SettingsService.
type stubSettings struct {
	settings    domain.AppSettings
	validateErr error
}

func (s *stubSettings) Get() (*domain.AppSettings, error) {
	settings := s.settings
	return &settings, nil
}

func (s *stubSettings) Save(_ *domain.AppSettings) error { return nil }

func (s *stubSettings) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	s.settings.Embedding = domain.EmbeddingSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (s *stubSettings) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	s.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, APIKey: apiKey}
	return nil
}

func (s *stubSettings) Validate() error { return s.validateErr }

func (s *stubSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (s *stubSettings) ValidateEmbeddingConfig() error { return nil }

func (s *stubSettings) ValidateLLMConfig() error { return nil }

func TestSettingsCmd_FailsWithoutService(t *testing.T) {
	SetServices(Services{})

	_, err := execute(t, "settings")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}

func TestSettingsCmd_ShowsConfiguredProviders(t *testing.T) {
	SetServices(Services{Settings: &stubSettings{
		settings: domain.AppSettings{
			Embedding: domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				Model:    "nomic-embed-text",
				BaseURL:  "http://localhost:11434",
			},
			LLM: domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				Model:    "gpt-4o-mini",
				APIKey:   "sk-proj-abcdef123456",
			},
			Chunking:  domain.DefaultAppSettings().Chunking,
			Retrieval: domain.DefaultAppSettings().Retrieval,
		},
	}})
	defer SetServices(Services{})

	out, err := execute(t, "settings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Ollama (local)")
	assert.Contains(t, out, "nomic-embed-text")
	assert.Contains(t, out, "OpenAI (cloud)")
	assert.Contains(t, out, "sk-p...3456")
	assert.NotContains(t, out, "sk-proj-abcdef123456")
	assert.Contains(t, out, "Generation threshold: 0.40")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsCmd_WarnsWhenInvalid(t *testing.T) {
	SetServices(Services{Settings: &stubSettings{
		validateErr: assert.AnError,
	}})
	defer SetServices(Services{})

	out, err := execute(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Warning:")
}

func TestParseChoice(t *testing.T) {
	assert.Equal(t, 1, parseChoice("", 3, 1))
	assert.Equal(t, 2, parseChoice("2", 3, 1))
	assert.Equal(t, 1, parseChoice("9", 3, 1))
	assert.Equal(t, 1, parseChoice("abc", 3, 1))
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "sk-a...wxyz", maskAPIKey("sk-abcdefgh-wxyz"))
}

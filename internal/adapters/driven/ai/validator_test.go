package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhire/khoji/internal/core/domain"
)

func TestNewConfigValidator(t *testing.T) {
	validator := NewConfigValidator()

	require.NotNil(t, validator)
}

func TestConfigValidator_ValidateEmbedding_NilSettings(t *testing.T) {
	validator := NewConfigValidator()

	assert.NoError(t, validator.ValidateEmbedding(nil))
}

func TestConfigValidator_ValidateEmbedding_Unconfigured(t *testing.T) {
	validator := NewConfigValidator()
	settings := &domain.EmbeddingSettings{
		Provider: "",
		Model:    "test-model",
	}

	assert.NoError(t, validator.ValidateEmbedding(settings))
}

func TestConfigValidator_ValidateEmbedding_AnthropicRejected(t *testing.T) {
	validator := NewConfigValidator()
	settings := &domain.EmbeddingSettings{
		Provider: domain.AIProviderAnthropic,
		Model:    "claude-3-5-sonnet-latest",
		APIKey:   "sk-test",
	}

	err := validator.ValidateEmbedding(settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support embeddings")
}

func TestConfigValidator_ValidateLLM_NilSettings(t *testing.T) {
	validator := NewConfigValidator()

	assert.NoError(t, validator.ValidateLLM(nil))
}

func TestConfigValidator_ValidateLLM_Unconfigured(t *testing.T) {
	validator := NewConfigValidator()
	settings := &domain.LLMSettings{
		Provider: "",
		Model:    "test-model",
	}

	assert.NoError(t, validator.ValidateLLM(settings))
}

func TestConfigValidator_ValidateLLM_UnreachableProvider(t *testing.T) {
	validator := NewConfigValidator()
	settings := &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		Model:    "llama3.2",
		BaseURL:  "http://127.0.0.1:1",
	}

	assert.Error(t, validator.ValidateLLM(settings))
}

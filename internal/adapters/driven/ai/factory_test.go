package ai

import (
	"strings"
	"testing"

	"github.com/mhire/khoji/internal/core/domain"
)

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name        string
		settings    *domain.EmbeddingSettings
		wantNil     bool
		wantErr     bool
		errContains string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.EmbeddingSettings{},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "nomic-embed-text",
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "text-embedding-3-small",
			},
		},
		{
			name: "anthropic provider returns error",
			settings: &domain.EmbeddingSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
			},
			wantNil:     true,
			wantErr:     true,
			errContains: "anthropic does not support embeddings",
		},
		{
			name: "unknown provider is treated as unconfigured",
			settings: &domain.EmbeddingSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.settings)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				} else if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q should contain %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.wantNil && svc != nil {
				t.Error("expected nil service, got non-nil")
			}
			if !tt.wantNil && svc == nil {
				t.Error("expected non-nil service, got nil")
			}
			if svc != nil {
				svc.Close()
			}
		})
	}
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
		wantErr  bool
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.LLMSettings{},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "llama3.2",
			},
		},
		{
			name: "openai provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "gpt-4o-mini",
			},
		},
		{
			name: "anthropic provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
				Model:    "claude-3-5-sonnet-latest",
			},
		},
		{
			name: "openai without api key is treated as unconfigured",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				Model:    "gpt-4o-mini",
			},
			wantNil: true,
		},
		{
			name: "unknown provider is treated as unconfigured",
			settings: &domain.LLMSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)

			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}

			if tt.wantNil && svc != nil {
				t.Error("expected nil service, got non-nil")
			}
			if !tt.wantNil && svc == nil {
				t.Error("expected non-nil service, got nil")
			}
			if svc != nil {
				svc.Close()
			}
		})
	}
}

func TestCreateAndValidateEmbeddingService(t *testing.T) {
	t.Run("nil settings returns nil without error", func(t *testing.T) {
		svc, err := CreateAndValidateEmbeddingService(nil)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if svc != nil {
			t.Error("expected nil service")
			svc.Close()
		}
	})

	t.Run("anthropic wraps the unavailable error", func(t *testing.T) {
		_, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderAnthropic,
			APIKey:   "test-key",
		})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), domain.ErrEmbeddingUnavailable.Error()) {
			t.Errorf("error %q should wrap %q", err.Error(), domain.ErrEmbeddingUnavailable.Error())
		}
	})
}

func TestCreateAndValidateLLMService(t *testing.T) {
	t.Run("nil settings returns nil without error", func(t *testing.T) {
		svc, err := CreateAndValidateLLMService(nil)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if svc != nil {
			t.Error("expected nil service")
			svc.Close()
		}
	})

	t.Run("unreachable server fails the ping", func(t *testing.T) {
		svc, err := CreateAndValidateLLMService(&domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  "http://127.0.0.1:1", // nothing listens here
			Model:    "llama3.2",
		})
		if err == nil {
			if svc != nil {
				svc.Close()
			}
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), domain.ErrLLMUnavailable.Error()) {
			t.Errorf("error %q should wrap %q", err.Error(), domain.ErrLLMUnavailable.Error())
		}
	})
}

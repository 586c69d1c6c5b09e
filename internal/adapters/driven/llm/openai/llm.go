// Package openai provides an LLM service adapter using the OpenAI
// chat completions API.
package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/mhire/khoji/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = goopenai.GPT4o

// Config holds configuration for the OpenAI LLM service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API base URL (for proxies and compatible
	// endpoints). Empty means the official endpoint.
	BaseURL string

	// Model is the chat model to use (default: gpt-4o).
	Model string
}

// LLMService provides LLM operations using the OpenAI API.
type LLMService struct {
	client *goopenai.Client
	model  string
}

// NewLLMService creates a new OpenAI LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &LLMService{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// Generate produces text completion from a single prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model: s.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
		Stop:        opts.StopWords,
	}
	return s.complete(ctx, req)
}

// Chat conducts a multi-turn conversation.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	apiMessages := make([]goopenai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		apiMessages[i] = goopenai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	req := goopenai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    apiMessages,
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
	}
	return s.complete(ctx, req)
}

// complete sends the completion request and extracts the first choice.
func (s *LLMService) complete(ctx context.Context, req goopenai.ChatCompletionRequest) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: no completion choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// ModelName returns the name of the LLM model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the API key by listing models. No inference runs.
func (s *LLMService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	return nil
}

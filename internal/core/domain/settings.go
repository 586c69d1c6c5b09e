package domain

const unknownDescription = "Unknown"

// AIProvider identifies an embedding or LLM service provider.
type AIProvider string

// Supported AI providers.
const (
	// AIProviderOllama is a local Ollama inference server.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API (LLM only).
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if the provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if the provider runs on a local endpoint.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// AllEmbeddingProviders returns the providers that can serve embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// AllLLMProviders returns the providers that can serve chat generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// DefaultEmbeddingModels maps each provider to its default embedding model.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels maps each provider to its default chat model.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkingSettings holds text splitting and batching configuration.
type ChunkingSettings struct {
	// MaxLength is the chunk size ceiling in characters.
	MaxLength int

	// BatchSize is how many chunks are embedded per upstream call.
	BatchSize int
}

// RetrievalSettings holds similarity search configuration.
//
// GenerationThreshold and ListingThreshold are deliberately independent
// knobs: the answer-generation path admits weaker matches (0.4) than the
// raw listing path (0.5), and the two must stay separately tunable.
type RetrievalSettings struct {
	// Limit is the number of documents to retrieve.
	Limit int

	// CandidateMultiplier scales Limit into the candidate count the
	// search engine considers before narrowing.
	CandidateMultiplier int

	// GenerationThreshold is the minimum similarity score for the
	// answer-generation path.
	GenerationThreshold float64

	// ListingThreshold is the minimum similarity score for the raw
	// listing path.
	ListingThreshold float64
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Chunking holds text splitting settings.
	Chunking ChunkingSettings

	// Retrieval holds similarity search settings.
	Retrieval RetrievalSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// AI providers (Embedding, LLM) are left unconfigured by default and
// must be set up explicitly before ingestion or chat work.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{},
		LLM:       LLMSettings{},
		Chunking: ChunkingSettings{
			MaxLength: 5500,
			BatchSize: 10,
		},
		Retrieval: RetrievalSettings{
			Limit:               5,
			CandidateMultiplier: 20,
			GenerationThreshold: 0.4,
			ListingThreshold:    0.5,
		},
	}
}

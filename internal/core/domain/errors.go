package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput indicates text became blank after preprocessing.
	// Fatal to that call; there is nothing to embed or retrieve for.
	ErrEmptyInput = errors.New("empty input after preprocessing")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Generation and groundedness judging are disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Ingestion and retrieval are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorSearchUnavailable indicates the similarity search capability
	// is not configured. Retrieval is disabled without it.
	ErrVectorSearchUnavailable = errors.New("vector search unavailable")

	// ErrStoreUnavailable indicates the chunk store is not configured.
	ErrStoreUnavailable = errors.New("chunk store unavailable")
)

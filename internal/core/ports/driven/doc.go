// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them. Each one wraps an external collaborator of the RAG
// pipeline; the core never talks to upstream services directly.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ChunkStore: Chunk persistence keyed by (source id, chunk index)
//   - VectorSearcher: Similarity search over stored chunk embeddings
//   - EmbeddingService: Generates vector embeddings
//   - SessionStore: Conversational history keyed by session id
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Answer generation and groundedness judging. Without it,
//     chat and evaluation are disabled but ingestion and retrieval work.
//   - PromptStore: User-customisable prompt templates. Without it,
//     embedded defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

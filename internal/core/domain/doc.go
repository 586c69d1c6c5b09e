// Package domain defines the core business entities for Khoji.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Chunk: A bounded, embedded slice of a source document
//   - RetrievedDocument: A chunk projection carrying a similarity score
//   - RAGContext: The attributed context blob handed to generation
//   - EvaluationResult: The combined groundedness/relevance verdict
//   - Session: Ordered conversational history for one session id
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

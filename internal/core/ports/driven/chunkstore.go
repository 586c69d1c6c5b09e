package driven

import (
	"context"

	"github.com/mhire/khoji/internal/core/domain"
)

// ChunkStore persists chunk documents keyed by (source id, chunk index).
//
// Chunk replacement is delete-all-then-reinsert and is NOT transactional:
// a failure after DeleteBySource but before InsertChunks leaves the
// source with zero chunks. Callers must treat "source has no chunks" as
// a recoverable state requiring resubmission, not data corruption.
type ChunkStore interface {
	// InsertChunks bulk-inserts chunks for a source.
	InsertChunks(ctx context.Context, chunks []domain.Chunk) error

	// DeleteBySource bulk-deletes all chunks of a source and returns
	// how many were removed. Deleting a source with no chunks is not
	// an error; it returns 0.
	DeleteBySource(ctx context.Context, sourceID string) (int, error)

	// ListBySource returns all chunks of a source ordered by index.
	// Embeddings are not hydrated.
	ListBySource(ctx context.Context, sourceID string) ([]domain.Chunk, error)

	// CountBySource returns the number of stored chunks for a source.
	CountBySource(ctx context.Context, sourceID string) (int, error)

	// ListSources returns the distinct source ids with stored chunks.
	ListSources(ctx context.Context) ([]string, error)

	// Close releases resources.
	Close() error
}

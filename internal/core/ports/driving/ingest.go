package driving

import (
	"context"

	"github.com/mhire/khoji/internal/core/domain"
)

// IngestService turns source documents into stored, embedded chunks.
type IngestService interface {
	// Submit chunks, embeds and stores the text for a source document.
	// Any previously stored chunks for the source are superseded: they
	// are deleted before the new set is inserted. Resubmitting a source
	// is therefore the update operation.
	Submit(ctx context.Context, sourceID, text string) (*domain.IngestReceipt, error)

	// Delete removes all stored chunks of a source and returns how
	// many were removed.
	Delete(ctx context.Context, sourceID string) (int, error)

	// ListSources returns the distinct source ids with stored chunks.
	ListSources(ctx context.Context) ([]string, error)
}

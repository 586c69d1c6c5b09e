package driving

import (
	"context"

	"github.com/mhire/khoji/internal/core/domain"
)

// RetrievalService retrieves stored chunks relevant to a query.
type RetrievalService interface {
	// Retrieve returns ranked documents passing the listing similarity
	// threshold. Zero results is a valid outcome, not an error.
	Retrieve(ctx context.Context, query string, limit int) ([]domain.RetrievedDocument, error)

	// RetrieveContext assembles the attributed context blob for answer
	// generation from documents passing the generation threshold. An
	// empty RAGContext is a valid "no relevant knowledge" result.
	RetrieveContext(ctx context.Context, query string) (*domain.RAGContext, error)

	// RetrieveForGeneration returns the documents passing the
	// generation threshold together with the context assembled from
	// them, in one search. The evaluation path needs both: the context
	// for the groundedness judge and the raw documents for relevance.
	RetrieveForGeneration(ctx context.Context, query string) ([]domain.RetrievedDocument, *domain.RAGContext, error)

	// Inspect returns the assembled context alongside a raw document
	// preview for the same query, for debugging retrieval quality.
	Inspect(ctx context.Context, query string) (*domain.RetrievalInspection, error)
}

package driven

import (
	"context"

	"github.com/mhire/khoji/internal/core/domain"
)

// VectorSearcher performs similarity search over stored chunk embeddings.
//
// The search considers Candidates nearest neighbours and narrows to
// Limit ranked hits. Server-side metadata filters are available on
// source id, language, and chunk index.
type VectorSearcher interface {
	// Search finds chunks similar to the query vector, ranked by
	// similarity descending. Scores are cosine similarity in [0,1].
	Search(ctx context.Context, query []float32, opts SearchOptions) ([]domain.RetrievedDocument, error)

	// Close releases resources.
	Close() error
}

// SearchOptions configures one similarity search.
type SearchOptions struct {
	// Candidates is how many nearest neighbours to consider before
	// narrowing to Limit.
	Candidates int

	// Limit is the maximum number of hits to return.
	Limit int

	// Filter restricts the search by chunk metadata. Nil means no filter.
	Filter *SearchFilter
}

// SearchFilter restricts a similarity search by chunk metadata.
// Zero-valued fields are not applied.
type SearchFilter struct {
	// SourceID restricts hits to one source document.
	SourceID string

	// Language restricts hits to sources of one detected language.
	Language domain.Language

	// ChunkIndex restricts hits to one chunk position. Nil means not
	// applied.
	ChunkIndex *int
}

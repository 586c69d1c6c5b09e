package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/mhire/khoji/internal/core/domain"
	"github.com/mhire/khoji/internal/core/ports/driven"
	"github.com/mhire/khoji/internal/core/ports/driving"
	"github.com/mhire/khoji/internal/logger"
	"github.com/mhire/khoji/internal/textproc"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// Retrieval defaults, overridable through options.
const (
	DefaultRetrievalLimit      = 5
	DefaultCandidateMultiplier = 20
	DefaultGenerationThreshold = 0.4
	DefaultListingThreshold    = 0.5
)

// rawPreviewLimit caps how many raw documents Inspect carries.
const rawPreviewLimit = 3

// RetrievalService retrieves stored chunks relevant to a query and
// assembles the attributed context used for answer generation.
type RetrievalService struct {
	embedder driven.EmbeddingService
	searcher driven.VectorSearcher

	limit               int
	candidateMultiplier int
	generationThreshold float64
	listingThreshold    float64
}

// RetrievalOption configures the retrieval service.
type RetrievalOption func(*RetrievalService)

// WithRetrievalSettings applies limit, candidate multiplier and both
// similarity thresholds from settings. Non-positive values keep the
// defaults.
func WithRetrievalSettings(cfg domain.RetrievalSettings) RetrievalOption {
	return func(s *RetrievalService) {
		if cfg.Limit > 0 {
			s.limit = cfg.Limit
		}
		if cfg.CandidateMultiplier > 0 {
			s.candidateMultiplier = cfg.CandidateMultiplier
		}
		if cfg.GenerationThreshold > 0 {
			s.generationThreshold = cfg.GenerationThreshold
		}
		if cfg.ListingThreshold > 0 {
			s.listingThreshold = cfg.ListingThreshold
		}
	}
}

// NewRetrievalService creates a new retrieval service.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	searcher driven.VectorSearcher,
	opts ...RetrievalOption,
) *RetrievalService {
	s := &RetrievalService{
		embedder:            embedder,
		searcher:            searcher,
		limit:               DefaultRetrievalLimit,
		candidateMultiplier: DefaultCandidateMultiplier,
		generationThreshold: DefaultGenerationThreshold,
		listingThreshold:    DefaultListingThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Retrieve returns ranked documents passing the listing similarity
// threshold. Zero results is a valid outcome, not an error.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, limit int) ([]domain.RetrievedDocument, error) {
	logger.Section("Retrieval")

	if limit <= 0 {
		limit = s.limit
	}
	docs, err := s.search(ctx, query, limit, s.listingThreshold)
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// RetrieveContext assembles the attributed context blob for answer
// generation from documents passing the generation threshold. An empty
// RAGContext is a valid "no relevant knowledge" result.
func (s *RetrievalService) RetrieveContext(ctx context.Context, query string) (*domain.RAGContext, error) {
	_, ragCtx, err := s.RetrieveForGeneration(ctx, query)
	return ragCtx, err
}

// RetrieveForGeneration returns the documents passing the generation
// threshold together with the context assembled from them, in one
// search.
func (s *RetrievalService) RetrieveForGeneration(ctx context.Context, query string) ([]domain.RetrievedDocument, *domain.RAGContext, error) {
	logger.Section("Context Assembly")

	docs, err := s.search(ctx, query, s.limit, s.generationThreshold)
	if err != nil {
		return nil, nil, err
	}
	return docs, assembleContext(docs), nil
}

// Inspect returns the assembled context alongside a raw document
// preview for the same query.
func (s *RetrievalService) Inspect(ctx context.Context, query string) (*domain.RetrievalInspection, error) {
	ragCtx, err := s.RetrieveContext(ctx, query)
	if err != nil {
		return nil, err
	}

	raw, err := s.Retrieve(ctx, query, s.limit)
	if err != nil {
		return nil, err
	}

	preview := raw
	if len(preview) > rawPreviewLimit {
		preview = preview[:rawPreviewLimit]
	}

	return &domain.RetrievalInspection{
		Query:            query,
		Context:          *ragCtx,
		RawDocumentCount: len(raw),
		RawDocuments:     preview,
	}, nil
}

// search embeds the query, over-fetches candidates, filters by the
// similarity threshold, and returns at most limit documents ranked by
// similarity descending. The query goes through the same preprocessing
// as ingested text so both sides of the similarity search see the same
// normalisation.
func (s *RetrievalService) search(
	ctx context.Context, query string, limit int, threshold float64,
) ([]domain.RetrievedDocument, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query is required: %w", domain.ErrInvalidInput)
	}

	query = textproc.Clean(query)
	if query == "" {
		return nil, fmt.Errorf("query: %w", domain.ErrEmptyInput)
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	// Over-fetch so threshold filtering does not starve the result.
	candidates := limit * s.candidateMultiplier
	logger.Debug("Query: %q, limit: %d, candidates: %d, threshold: %.2f",
		query, limit, candidates, threshold)

	hits, err := s.searcher.Search(ctx, vector, driven.SearchOptions{
		Candidates: candidates,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	docs := make([]domain.RetrievedDocument, 0, len(hits))
	for _, hit := range hits {
		if hit.Score >= threshold {
			docs = append(docs, hit)
		}
	}
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Score > docs[j].Score
	})

	logger.Info("%d/%d documents passed threshold %.2f", len(docs), len(hits), threshold)
	return docs, nil
}

// assembleContext formats retrieved documents into the attributed
// context blob. Each document is preceded by a provenance header naming
// its rank, source and chunk position; texts are included in full,
// never truncated.
func assembleContext(docs []domain.RetrievedDocument) *domain.RAGContext {
	if len(docs) == 0 {
		return &domain.RAGContext{}
	}

	var b strings.Builder
	sources := make([]domain.SourceAttribution, 0, len(docs))
	var languages []domain.Language
	seen := make(map[domain.Language]struct{})

	for i, doc := range docs {
		fmt.Fprintf(&b, "=== Document %d from %s [Chunk %d/%d] ===\n%s\n\n",
			i+1, doc.SourceID, doc.Index+1, doc.TotalChunks, doc.Text)

		sources = append(sources, domain.SourceAttribution{
			SourceID:   doc.SourceID,
			ChunkIndex: doc.Index,
			Score:      math.Round(doc.Score*10000) / 10000,
			Language:   doc.Language,
		})
		if _, ok := seen[doc.Language]; !ok {
			seen[doc.Language] = struct{}{}
			languages = append(languages, doc.Language)
		}
	}

	text := strings.TrimSpace(b.String())
	return &domain.RAGContext{
		Text:           text,
		Sources:        sources,
		TotalDocuments: len(docs),
		Languages:      languages,
		Length:         len(text),
	}
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mhire/khoji/internal/core/domain"
	"github.com/mhire/khoji/internal/core/ports/driven"
	"github.com/mhire/khoji/internal/core/ports/driving"
	"github.com/mhire/khoji/internal/language"
	"github.com/mhire/khoji/internal/logger"
	"github.com/mhire/khoji/internal/textproc"
	"github.com/mhire/khoji/internal/textproc/chunker"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultBatchSize is how many chunks are embedded per upstream call.
const DefaultBatchSize = 10

// IngestService turns source documents into stored, embedded chunks.
type IngestService struct {
	chunkStore driven.ChunkStore
	embedder   driven.EmbeddingService
	splitter   *chunker.Chunker
	batchSize  int
	limiter    *rate.Limiter
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithBatchSize sets how many chunks are embedded per upstream call.
func WithBatchSize(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithChunker sets the text splitter.
func WithChunker(c *chunker.Chunker) IngestOption {
	return func(s *IngestService) {
		if c != nil {
			s.splitter = c
		}
	}
}

// WithEmbedRateLimit paces embedding batch calls. Upstream providers
// rate-limit aggressively; pacing batches avoids tripping those limits
// on large documents.
func WithEmbedRateLimit(l *rate.Limiter) IngestOption {
	return func(s *IngestService) {
		s.limiter = l
	}
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	chunkStore driven.ChunkStore,
	embedder driven.EmbeddingService,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		chunkStore: chunkStore,
		embedder:   embedder,
		splitter:   chunker.New(),
		batchSize:  DefaultBatchSize,
		// Default pacing: at most ten embedding batches per second.
		limiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit chunks, embeds and stores the text for a source document.
// Previously stored chunks for the source are deleted before the new
// set is inserted, so resubmitting a source is the update operation.
//
// Embedding failure aborts the whole submission. Storage failure after
// embedding is partial: surviving chunks are kept and the receipt
// carries the success and failure counts.
func (s *IngestService) Submit(ctx context.Context, sourceID, text string) (*domain.IngestReceipt, error) {
	logger.Section("Ingestion")
	logger.Debug("Source: %q", sourceID)

	if sourceID == "" {
		return nil, fmt.Errorf("source id is required: %w", domain.ErrInvalidInput)
	}

	cleaned := textproc.Clean(text)
	if cleaned == "" {
		logger.Debug("Nothing left after preprocessing")
		return nil, fmt.Errorf("source %q: %w", sourceID, domain.ErrEmptyInput)
	}

	// Language is detected once on the full text; every chunk of a
	// source carries the same label.
	lang := language.Detect(cleaned)
	logger.Debug("Detected language: %s", lang)

	pieces := s.splitter.Split(cleaned)
	logger.Info("Split %d characters into %d chunks", len([]rune(cleaned)), len(pieces))

	chunks, err := s.embedAll(ctx, sourceID, pieces, lang)
	if err != nil {
		return nil, err
	}

	receipt := &domain.IngestReceipt{
		SourceID:    sourceID,
		TotalChunks: len(chunks),
		Language:    lang,
	}
	if len(chunks) > 0 {
		receipt.Dimensions = len(chunks[0].Embedding)
	}

	// Replacement is delete-all-then-reinsert and not transactional.
	// A failure between the two steps leaves the source empty, which a
	// resubmission repairs.
	removed, err := s.chunkStore.DeleteBySource(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("deleting previous chunks of %q: %w", sourceID, err)
	}
	if removed > 0 {
		logger.Debug("Superseded %d previous chunks", removed)
	}

	for start := 0; start < len(chunks); start += s.batchSize {
		end := start + s.batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		if err := s.chunkStore.InsertChunks(ctx, batch); err != nil {
			logger.Warn("Storing chunks %d-%d of %q failed: %v", start, end-1, sourceID, err)
			receipt.FailedChunks += len(batch)
			continue
		}
		receipt.SuccessfulChunks += len(batch)
		for _, c := range batch {
			receipt.ChunkIDs = append(receipt.ChunkIDs, c.ID)
		}
	}

	logger.Info("Stored %d/%d chunks for %q", receipt.SuccessfulChunks, receipt.TotalChunks, sourceID)

	if !receipt.Succeeded() {
		return receipt, fmt.Errorf("no chunks stored for %q: %w", sourceID, domain.ErrStoreUnavailable)
	}
	return receipt, nil
}

// embedAll embeds the chunk texts in batches and builds the chunk rows.
// Batch boundaries never affect chunk indices: the index is the global
// position in the split, whatever the batch size.
func (s *IngestService) embedAll(
	ctx context.Context, sourceID string, pieces []string, lang domain.Language,
) ([]domain.Chunk, error) {
	defer logger.Elapsed("embedding", time.Now())

	chunks := make([]domain.Chunk, 0, len(pieces))
	now := time.Now().UTC()

	for start := 0; start < len(pieces); start += s.batchSize {
		end := start + s.batchSize
		if end > len(pieces) {
			end = len(pieces)
		}
		batch := pieces[start:end]

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("waiting for embed rate limit: %w", err)
			}
		}

		logger.Debug("Embedding batch %d-%d of %d", start, end-1, len(pieces))
		vectors, err := s.embedder.EmbedBatch(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("embedding chunks %d-%d of %q: %w", start, end-1, sourceID, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embedding returned %d vectors for %d texts: %w",
				len(vectors), len(batch), domain.ErrEmbeddingUnavailable)
		}

		for i, vec := range vectors {
			idx := start + i
			chunks = append(chunks, domain.Chunk{
				ID:          uuid.New().String(),
				SourceID:    sourceID,
				Index:       idx,
				TotalChunks: len(pieces),
				Text:        batch[i],
				CharLength:  len([]rune(batch[i])),
				Language:    lang,
				Embedding:   vec,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
	}

	return chunks, nil
}

// Delete removes all stored chunks of a source.
func (s *IngestService) Delete(ctx context.Context, sourceID string) (int, error) {
	if sourceID == "" {
		return 0, fmt.Errorf("source id is required: %w", domain.ErrInvalidInput)
	}

	removed, err := s.chunkStore.DeleteBySource(ctx, sourceID)
	if err != nil {
		return 0, fmt.Errorf("deleting chunks of %q: %w", sourceID, err)
	}
	logger.Info("Deleted %d chunks of %q", removed, sourceID)
	return removed, nil
}

// ListSources returns the distinct source ids with stored chunks.
func (s *IngestService) ListSources(ctx context.Context) ([]string, error) {
	sources, err := s.chunkStore.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}
	return sources, nil
}

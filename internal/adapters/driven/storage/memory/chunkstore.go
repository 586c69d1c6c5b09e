// Package memory provides in-memory store implementations for testing
// and for deployments that do not need persistence.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/mhire/khoji/internal/core/domain"
	"github.com/mhire/khoji/internal/core/ports/driven"
)

// ChunkStore interface assertions.
var (
	_ driven.ChunkStore     = (*ChunkStore)(nil)
	_ driven.VectorSearcher = (*ChunkStore)(nil)
)

// ChunkStore is an in-memory chunk store with brute-force similarity
// search. Chunks are held per source in index order.
type ChunkStore struct {
	mu     sync.RWMutex
	chunks map[string][]domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		chunks: make(map[string][]domain.Chunk),
	}
}

// InsertChunks stores chunks, appending to each chunk's source set and
// keeping the set ordered by index.
func (s *ChunkStore) InsertChunks(_ context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	touched := make(map[string]bool)
	for _, chunk := range chunks {
		s.chunks[chunk.SourceID] = append(s.chunks[chunk.SourceID], chunk)
		touched[chunk.SourceID] = true
	}
	for sourceID := range touched {
		set := s.chunks[sourceID]
		sort.SliceStable(set, func(i, j int) bool {
			return set[i].Index < set[j].Index
		})
	}
	return nil
}

// DeleteBySource removes all chunks of a source and returns how many
// were removed.
func (s *ChunkStore) DeleteBySource(_ context.Context, sourceID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := len(s.chunks[sourceID])
	delete(s.chunks, sourceID)
	return count, nil
}

// ListBySource returns all chunks of a source ordered by index.
// Embeddings are not hydrated.
func (s *ChunkStore) ListBySource(_ context.Context, sourceID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.chunks[sourceID]
	result := make([]domain.Chunk, len(stored))
	for i, chunk := range stored {
		chunk.Embedding = nil
		result[i] = chunk
	}
	return result, nil
}

// CountBySource returns the number of stored chunks for a source.
func (s *ChunkStore) CountBySource(_ context.Context, sourceID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks[sourceID]), nil
}

// ListSources returns the distinct source ids with stored chunks,
// sorted for deterministic output.
func (s *ChunkStore) ListSources(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sources := make([]string, 0, len(s.chunks))
	for id := range s.chunks {
		sources = append(sources, id)
	}
	sort.Strings(sources)
	return sources, nil
}

// Search scans all stored embeddings and ranks them by cosine
// similarity against the query vector.
func (s *ChunkStore) Search(_ context.Context, query []float32, opts driven.SearchOptions) ([]domain.RetrievedDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []domain.RetrievedDocument
	for _, set := range s.chunks {
		for _, chunk := range set {
			if chunk.Embedding == nil || !matchesFilter(chunk, opts.Filter) {
				continue
			}
			hits = append(hits, domain.RetrievedDocument{
				SourceID:    chunk.SourceID,
				Index:       chunk.Index,
				TotalChunks: chunk.TotalChunks,
				Text:        chunk.Text,
				Language:    chunk.Language,
				Score:       cosineSimilarity(query, chunk.Embedding),
				CreatedAt:   chunk.CreatedAt,
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if opts.Candidates > 0 && len(hits) > opts.Candidates {
		hits = hits[:opts.Candidates]
	}
	if opts.Limit > 0 && len(hits) > opts.Limit {
		hits = hits[:opts.Limit]
	}
	return hits, nil
}

// Close releases resources.
func (s *ChunkStore) Close() error {
	return nil
}

// matchesFilter applies zero-value-skipping metadata filters.
func matchesFilter(chunk domain.Chunk, filter *driven.SearchFilter) bool {
	if filter == nil {
		return true
	}
	if filter.SourceID != "" && chunk.SourceID != filter.SourceID {
		return false
	}
	if filter.Language != "" && chunk.Language != filter.Language {
		return false
	}
	if filter.ChunkIndex != nil && chunk.Index != *filter.ChunkIndex {
		return false
	}
	return true
}

// cosineSimilarity computes cosine similarity between two vectors,
// clamped to [0,1]. Mismatched or zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

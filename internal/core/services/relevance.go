package services

import (
	"fmt"

	"github.com/mhire/khoji/internal/core/domain"
	"github.com/mhire/khoji/internal/logger"
	"github.com/mhire/khoji/internal/textproc/tfidf"
)

// Relevance thresholds. A document counts as relevant when ANY of the
// three signals clears its cutoff; the signals compensate for each
// other's blind spots (lexical misses paraphrase, upstream similarity
// misses exact keyword hits).
const (
	lexicalRelevanceCutoff = 0.1
	keywordOverlapCutoff   = 0.2
	upstreamScoreCutoff    = 0.5
)

// Relevance score weighting.
const (
	lexicalWeight  = 0.3
	ratioWeight    = 0.4
	upstreamWeight = 0.3
)

// RelevanceService judges whether retrieved documents pertain to the
// query, independent of the retrieval engine's own ranking. The
// judgment is purely lexical and deterministic; no model calls.
type RelevanceService struct{}

// NewRelevanceService creates a new relevance service.
func NewRelevanceService() *RelevanceService {
	return &RelevanceService{}
}

// Evaluate scores the retrieved set against the query. An empty set
// scores zero. The result is always well-formed; this never fails.
func (s *RelevanceService) Evaluate(query string, docs []domain.RetrievedDocument) domain.RelevanceResult {
	if len(docs) == 0 {
		return domain.RelevanceResult{
			Score:    0,
			Analysis: "No documents retrieved",
		}
	}

	var (
		lexicalSum  float64
		upstreamSum float64
		relevant    int
		individual  = make([]float64, 0, len(docs))
	)

	for _, doc := range docs {
		lexical := tfidf.Similarity(query, doc.Text)
		overlap := tfidf.KeywordOverlap(query, doc.Text)

		individual = append(individual, lexical)
		lexicalSum += lexical
		upstreamSum += doc.Score

		if lexical > lexicalRelevanceCutoff ||
			overlap > keywordOverlapCutoff ||
			doc.Score > upstreamScoreCutoff {
			relevant++
		}
	}

	n := float64(len(docs))
	avgLexical := lexicalSum / n
	avgUpstream := upstreamSum / n
	ratio := float64(relevant) / n
	score := clamp01(lexicalWeight*avgLexical + ratioWeight*ratio + upstreamWeight*avgUpstream)

	logger.Debug("Relevance: %d/%d documents relevant, score %.4f", relevant, len(docs), score)

	return domain.RelevanceResult{
		Score: score,
		Analysis: fmt.Sprintf(
			"Retrieved %d/%d relevant documents. TF-IDF similarity: %.3f, Vector similarity: %.3f",
			relevant, len(docs), avgLexical, avgUpstream),
		RelevantDocs:     relevant,
		TotalDocs:        len(docs),
		IndividualScores: individual,
	}
}

// clamp01 bounds v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

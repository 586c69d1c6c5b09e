package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhire/khoji/internal/core/domain"
)

func TestRelevance_EmptyDocumentSet(t *testing.T) {
	svc := NewRelevanceService()

	result := svc.Evaluate("any query", nil)

	assert.Zero(t, result.Score)
	assert.Zero(t, result.RelevantDocs)
	assert.Zero(t, result.TotalDocs)
	assert.Equal(t, "No documents retrieved", result.Analysis)
}

func TestRelevance_LexicalMatchQualifies(t *testing.T) {
	svc := NewRelevanceService()

	// Strong lexical overlap, weak upstream score: the lexical signal
	// alone qualifies the document.
	docs := []domain.RetrievedDocument{
		doc("a", 0, 1, "dhaka is the capital of bangladesh", 0.1),
	}
	result := svc.Evaluate("dhaka capital of bangladesh", docs)

	assert.Equal(t, 1, result.RelevantDocs)
	assert.Equal(t, 1, result.TotalDocs)
	assert.Greater(t, result.Score, 0.0)
}

func TestRelevance_UpstreamScoreAloneQualifies(t *testing.T) {
	svc := NewRelevanceService()

	// Zero lexical overlap but a strong retrieval score: paraphrased
	// content the vector search matched semantically.
	docs := []domain.RetrievedDocument{
		doc("a", 0, 1, "completely different wording here", 0.85),
	}
	result := svc.Evaluate("unrelated query tokens", docs)

	assert.Equal(t, 1, result.RelevantDocs)
}

func TestRelevance_IrrelevantDocument(t *testing.T) {
	svc := NewRelevanceService()

	docs := []domain.RetrievedDocument{
		doc("a", 0, 1, "completely different wording here", 0.2),
	}
	result := svc.Evaluate("unrelated query tokens", docs)

	assert.Zero(t, result.RelevantDocs)
	assert.Equal(t, 1, result.TotalDocs)
}

func TestRelevance_ScoreWeighting(t *testing.T) {
	svc := NewRelevanceService()

	// One perfectly matching document: lexical 1.0, ratio 1.0,
	// upstream 0.9 gives 0.3*1.0 + 0.4*1.0 + 0.3*0.9 = 0.97.
	docs := []domain.RetrievedDocument{
		doc("a", 0, 1, "dhaka is the capital", 0.9),
	}
	result := svc.Evaluate("dhaka is the capital", docs)

	assert.InDelta(t, 0.97, result.Score, 1e-9)
	require.Len(t, result.IndividualScores, 1)
	assert.InDelta(t, 1.0, result.IndividualScores[0], 1e-9)
}

func TestRelevance_ScoreClamped(t *testing.T) {
	svc := NewRelevanceService()

	// Upstream scores above 1 (a misbehaving engine) cannot push the
	// combined score past 1.
	docs := []domain.RetrievedDocument{
		doc("a", 0, 1, "dhaka is the capital", 3.0),
	}
	result := svc.Evaluate("dhaka is the capital", docs)

	assert.LessOrEqual(t, result.Score, 1.0)
}

func TestRelevance_MixedSet(t *testing.T) {
	svc := NewRelevanceService()

	docs := []domain.RetrievedDocument{
		doc("hit", 0, 1, "dhaka is the capital of bangladesh", 0.8),
		doc("miss", 0, 1, "entirely unrelated gardening advice", 0.2),
	}
	result := svc.Evaluate("dhaka capital bangladesh", docs)

	assert.Equal(t, 1, result.RelevantDocs)
	assert.Equal(t, 2, result.TotalDocs)
	assert.Len(t, result.IndividualScores, 2)
	assert.Contains(t, result.Analysis, "1/2")
}

func TestRelevance_BengaliQuery(t *testing.T) {
	svc := NewRelevanceService()

	docs := []domain.RetrievedDocument{
		doc("a", 0, 1, "ঢাকা বাংলাদেশের রাজধানী এবং বৃহত্তম শহর", 0.3),
	}
	result := svc.Evaluate("ঢাকা বাংলাদেশের রাজধানী", docs)

	assert.Equal(t, 1, result.RelevantDocs)
	assert.Greater(t, result.Score, 0.0)
}

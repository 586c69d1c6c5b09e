package driving

import (
	"context"

	"github.com/mhire/khoji/internal/core/domain"
)

// EvaluationService judges the quality of generated answers and of the
// retrieval that fed them.
//
// Evaluation is advisory: it never blocks or fails the answer path.
// Callers run it after generation and attach the verdict to the
// response.
type EvaluationService interface {
	// Groundedness judges whether the answer is supported by the
	// context, via an LLM judge. A blank context yields a zero score
	// without consulting the judge.
	Groundedness(ctx context.Context, answer, contextText string) (domain.GroundednessResult, error)

	// Relevance judges whether the retrieved documents pertain to the
	// query using lexical similarity and keyword overlap. Pure
	// computation; an empty document set yields a zero score.
	Relevance(ctx context.Context, query string, docs []domain.RetrievedDocument) domain.RelevanceResult

	// Evaluate combines Groundedness and Relevance into one overall
	// verdict for a full question/answer exchange.
	Evaluate(ctx context.Context, query, answer, contextText string, docs []domain.RetrievedDocument) (domain.EvaluationResult, error)
}

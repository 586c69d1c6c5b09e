package domain

// Quality is the coarse verdict derived from an overall evaluation score.
type Quality string

// Quality labels by fixed score breakpoints.
const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
)

// Groundedness/relevance weighting for the overall score.
const (
	groundednessWeight = 0.6
	relevanceWeight    = 0.4
)

// GroundednessResult is the judge's verdict on whether a generated
// answer is supported by the supplied context.
type GroundednessResult struct {
	// Score is the judged support level in [0,1].
	Score float64

	// Analysis is the judge's rationale. When the judge response could
	// not be parsed this holds the raw response text.
	Analysis string

	// Supported is true when Score >= 0.7.
	Supported bool
}

// RelevanceResult judges whether retrieved documents actually pertain
// to the query, independent of the retrieval engine's own scores.
type RelevanceResult struct {
	// Score is the combined relevance score in [0,1].
	Score float64

	// Analysis summarises the relevance breakdown.
	Analysis string

	// RelevantDocs is how many documents qualified as relevant.
	RelevantDocs int

	// TotalDocs is how many documents were judged.
	TotalDocs int

	// IndividualScores are the per-document lexical similarities.
	IndividualScores []float64
}

// EvaluationResult combines groundedness and relevance into one overall
// quality verdict. Derived, never persisted; recomputed per request.
type EvaluationResult struct {
	// OverallScore is the weighted combination in [0,1].
	OverallScore float64

	// Quality is the label derived from OverallScore.
	Quality Quality

	// Groundedness is the judge verdict on the answer.
	Groundedness GroundednessResult

	// Relevance is the verdict on the retrieved documents.
	Relevance RelevanceResult
}

// Aggregate combines groundedness and relevance into an EvaluationResult.
// overall = 0.6*groundedness + 0.4*relevance. Pure function, never fails
// for inputs in [0,1].
func Aggregate(g GroundednessResult, r RelevanceResult) EvaluationResult {
	overall := g.Score*groundednessWeight + r.Score*relevanceWeight
	return EvaluationResult{
		OverallScore: overall,
		Quality:      QualityFor(overall),
		Groundedness: g,
		Relevance:    r,
	}
}

// QualityFor maps an overall score to its quality label.
func QualityFor(score float64) Quality {
	switch {
	case score >= 0.8:
		return QualityExcellent
	case score >= 0.6:
		return QualityGood
	case score >= 0.4:
		return QualityFair
	default:
		return QualityPoor
	}
}

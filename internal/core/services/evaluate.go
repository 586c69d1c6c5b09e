package services

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mhire/khoji/internal/core/domain"
	"github.com/mhire/khoji/internal/core/ports/driven"
	"github.com/mhire/khoji/internal/core/ports/driving"
	"github.com/mhire/khoji/internal/logger"
)

// Ensure EvaluationService implements the interfaces.
var (
	_ driving.EvaluationService = (*EvaluationService)(nil)
	_ driven.PromptStoreAware   = (*EvaluationService)(nil)
)

// Judge call parameters. Low temperature keeps verdicts repeatable;
// 300 tokens is enough for a score line and a short analysis.
const (
	judgeMaxTokens   = 300
	judgeTemperature = 0.1
)

// supportedCutoff is the groundedness score at which an answer counts
// as supported by its context.
const supportedCutoff = 0.7

// defaultJudgePrompt is the Bengali rubric handed to the judge model.
// The score and analysis labels are load-bearing: parseJudgeResponse
// matches them verbatim.
const defaultJudgePrompt = `আপনি একটি RAG সিস্টেম মূল্যায়নকারী। নিচের উত্তরটি প্রদত্ত প্রসঙ্গ দ্বারা সমর্থিত কিনা তা মূল্যায়ন করুন।

প্রসঙ্গ:
%s

উত্তর:
%s

নির্দেশনা:
1. উত্তরটি প্রসঙ্গে উল্লিখিত তথ্য দ্বারা সমর্থিত কিনা বিশ্লেষণ করুন
2. 0.0 থেকে 1.0 স্কেল এ একটি স্কোর দিন (1.0 = সম্পূর্ণ সমর্থিত, 0.0 = সমর্থিত নয়)
3. সংক্ষিপ্ত বিশ্লেষণ প্রদান করুন

উত্তর ফরম্যাট:
স্কোর: [0.0-1.0]
বিশ্লেষণ: [সংক্ষিপ্ত ব্যাখ্যা]`

// Judge response labels. (?s) lets the analysis span lines.
var (
	scorePattern    = regexp.MustCompile(`স্কোর:\s*([0-9.]+)`)
	analysisPattern = regexp.MustCompile(`(?s)বিশ্লেষণ:\s*(.+)`)
)

// EvaluationService judges answer groundedness through an LLM judge
// and document relevance through lexical heuristics.
type EvaluationService struct {
	llm       driven.LLMService
	relevance *RelevanceService
	prompts   driven.PromptStore
}

// NewEvaluationService creates a new evaluation service. The LLM is
// used as the groundedness judge.
func NewEvaluationService(llm driven.LLMService) *EvaluationService {
	return &EvaluationService{
		llm:       llm,
		relevance: NewRelevanceService(),
	}
}

// SetPromptStore sets the prompt store for loading a customised judge
// rubric. Without one the built-in rubric is used.
func (s *EvaluationService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Groundedness judges whether the answer is supported by the context.
// A blank context short-circuits to a zero score without consulting
// the judge; the judge only ever sees non-empty context.
func (s *EvaluationService) Groundedness(ctx context.Context, answer, contextText string) (domain.GroundednessResult, error) {
	if strings.TrimSpace(contextText) == "" {
		return domain.GroundednessResult{
			Score:     0,
			Analysis:  "No context provided",
			Supported: false,
		}, nil
	}
	if s.llm == nil {
		return domain.GroundednessResult{}, fmt.Errorf("groundedness judge: %w", domain.ErrLLMUnavailable)
	}

	prompt := fmt.Sprintf(s.judgeTemplate(), contextText, answer)

	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   judgeMaxTokens,
		Temperature: judgeTemperature,
	})
	if err != nil {
		return domain.GroundednessResult{}, fmt.Errorf("groundedness judge: %w", err)
	}

	result := parseJudgeResponse(raw)
	logger.Debug("Groundedness: score %.2f, supported %t", result.Score, result.Supported)
	return result, nil
}

// judgeTemplate returns the judge rubric, preferring the prompt store.
func (s *EvaluationService) judgeTemplate() string {
	if s.prompts != nil {
		if tpl, err := s.prompts.Load(driven.PromptGroundednessJudge); err == nil && tpl != "" {
			return tpl
		}
	}
	return defaultJudgePrompt
}

// parseJudgeResponse extracts score and analysis from the judge's
// labelled response. A missing score yields zero with the raw response
// as analysis, so malformed judge output degrades visibly instead of
// failing. The support verdict is taken from the parsed score before
// clamping.
func parseJudgeResponse(raw string) domain.GroundednessResult {
	raw = strings.TrimSpace(raw)

	var score float64
	if m := scorePattern.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			score = v
		}
	}

	analysis := raw
	if m := analysisPattern.FindStringSubmatch(raw); m != nil {
		analysis = strings.TrimSpace(m[1])
	}

	return domain.GroundednessResult{
		Score:     clamp01(score),
		Analysis:  analysis,
		Supported: score >= supportedCutoff,
	}
}

// Relevance judges whether the retrieved documents pertain to the
// query. Pure computation; never fails.
func (s *EvaluationService) Relevance(_ context.Context, query string, docs []domain.RetrievedDocument) domain.RelevanceResult {
	return s.relevance.Evaluate(query, docs)
}

// Evaluate combines groundedness and relevance into one overall
// verdict. A judge failure degrades groundedness to the worst case
// instead of failing the evaluation; only context cancellation is
// propagated as an error.
func (s *EvaluationService) Evaluate(
	ctx context.Context, query, answer, contextText string, docs []domain.RetrievedDocument,
) (domain.EvaluationResult, error) {
	logger.Section("Evaluation")

	groundedness, err := s.Groundedness(ctx, answer, contextText)
	if err != nil {
		if ctx.Err() != nil {
			return domain.EvaluationResult{}, err
		}
		logger.Warn("Groundedness evaluation failed: %v", err)
		groundedness = domain.GroundednessResult{
			Score:     0,
			Analysis:  fmt.Sprintf("Error in evaluation: %v", err),
			Supported: false,
		}
	}

	relevance := s.Relevance(ctx, query, docs)

	result := domain.Aggregate(groundedness, relevance)
	logger.Info("Evaluation complete: overall %.3f, quality %s", result.OverallScore, result.Quality)
	return result, nil
}

package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhire/khoji/internal/core/domain"
	"github.com/mhire/khoji/internal/core/ports/driven"
)

func newTestChat(retrieval *fakeRetrieval, llm *fakeLLM, sessions *fakeSessionStore) *ChatService {
	return NewChatService(retrieval, llm, sessions, nil)
}

func TestAsk_GeneratesFromContext(t *testing.T) {
	retrieval := &fakeRetrieval{docs: []domain.RetrievedDocument{
		doc("guide.pdf", 0, 1, "Dhaka is the capital of Bangladesh.", 0.9),
	}}
	llm := &fakeLLM{response: "Dhaka."}
	sessions := newFakeSessionStore()
	svc := newTestChat(retrieval, llm, sessions)

	turn, err := svc.Ask(context.Background(), "s1", "What is the capital of Bangladesh?")
	require.NoError(t, err)

	assert.Equal(t, "s1", turn.SessionID)
	assert.Equal(t, "Dhaka.", turn.Answer)
	assert.Equal(t, domain.LanguageEnglish, turn.Language)
	require.Len(t, turn.Sources, 1)
	assert.Equal(t, "guide.pdf", turn.Sources[0].SourceID)
	assert.GreaterOrEqual(t, turn.Elapsed.Nanoseconds(), int64(0))

	// System prompt embeds the assembled context and the user message
	// arrives last.
	require.NotEmpty(t, llm.lastMessages)
	system := llm.lastMessages[0]
	assert.Equal(t, domain.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "Dhaka is the capital of Bangladesh.")
	assert.Contains(t, system.Content, "=== Document 1 from guide.pdf [Chunk 1/1] ===")
	last := llm.lastMessages[len(llm.lastMessages)-1]
	assert.Equal(t, domain.RoleUser, last.Role)
	assert.Equal(t, "What is the capital of Bangladesh?", last.Content)
}

func TestAsk_GenerationParameters(t *testing.T) {
	llm := &fakeLLM{response: "ok"}
	svc := newTestChat(&fakeRetrieval{}, llm, newFakeSessionStore())

	_, err := svc.Ask(context.Background(), "s1", "question")
	require.NoError(t, err)

	assert.Equal(t, chatMaxTokens, llm.lastChatOpts.MaxTokens)
	assert.InDelta(t, chatTemperature, llm.lastChatOpts.Temperature, 1e-9)
}

func TestAsk_SystemPromptByLanguage(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		language domain.Language
		marker   string
	}{
		{"bengali", "বাংলাদেশের রাজধানী কোথায় অবস্থিত বলুন", domain.LanguageBengali, "বাংলায় উত্তর দিন"},
		{"english", "Where is the capital located?", domain.LanguageEnglish, "Respond in English"},
		{"mixed", "ঢাকা শহর kothay located bolo please", domain.LanguageMixed, "mixed Bengali-English"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &fakeLLM{response: "ok"}
			svc := newTestChat(&fakeRetrieval{}, llm, newFakeSessionStore())

			turn, err := svc.Ask(context.Background(), "s1", tt.message)
			require.NoError(t, err)

			assert.Equal(t, tt.language, turn.Language)
			assert.Contains(t, llm.lastMessages[0].Content, tt.marker)
		})
	}
}

func TestAsk_AppendsBothTurnsToSession(t *testing.T) {
	llm := &fakeLLM{response: "the answer"}
	sessions := newFakeSessionStore()
	svc := newTestChat(&fakeRetrieval{}, llm, sessions)

	_, err := svc.Ask(context.Background(), "s1", "the question")
	require.NoError(t, err)

	session, err := sessions.Get(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, session.Messages, 2)
	assert.Equal(t, domain.RoleUser, session.Messages[0].Role)
	assert.Equal(t, "the question", session.Messages[0].Content)
	assert.Equal(t, domain.RoleAssistant, session.Messages[1].Role)
	assert.Equal(t, "the answer", session.Messages[1].Content)
	assert.Equal(t, domain.LanguageEnglish, session.Language)
}

func TestAsk_HistoryWindow(t *testing.T) {
	llm := &fakeLLM{response: "ok"}
	sessions := newFakeSessionStore()
	svc := newTestChat(&fakeRetrieval{}, llm, sessions)

	// Four prior exchanges put eight messages in the session; only the
	// last five accompany the new call.
	for i := 0; i < 4; i++ {
		_, err := svc.Ask(context.Background(), "s1", "earlier question")
		require.NoError(t, err)
	}

	_, err := svc.Ask(context.Background(), "s1", "newest question")
	require.NoError(t, err)

	// system + 5 history + current user message.
	assert.Len(t, llm.lastMessages, 7)
}

func TestAsk_ApologyOnGenerationFailure(t *testing.T) {
	t.Run("bengali", func(t *testing.T) {
		llm := &fakeLLM{err: assert.AnError}
		svc := newTestChat(&fakeRetrieval{}, llm, newFakeSessionStore())

		turn, err := svc.Ask(context.Background(), "s1", "বাংলাদেশের রাজধানী কোথায়")
		require.NoError(t, err)
		assert.Equal(t, apologyBengali, turn.Answer)
	})

	t.Run("english", func(t *testing.T) {
		llm := &fakeLLM{err: assert.AnError}
		sessions := newFakeSessionStore()
		svc := newTestChat(&fakeRetrieval{}, llm, sessions)

		turn, err := svc.Ask(context.Background(), "s1", "where is the capital")
		require.NoError(t, err)
		assert.Equal(t, apologyEnglish, turn.Answer)

		// The apology is recorded as the assistant turn.
		session, err := sessions.Get(context.Background(), "s1")
		require.NoError(t, err)
		assert.Equal(t, apologyEnglish, session.Messages[1].Content)
	})
}

func TestAsk_ValidatesInput(t *testing.T) {
	svc := newTestChat(&fakeRetrieval{}, &fakeLLM{response: "ok"}, newFakeSessionStore())

	_, err := svc.Ask(context.Background(), "", "message")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Ask(context.Background(), "s1", "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAsk_NoLLMConfigured(t *testing.T) {
	svc := NewChatService(&fakeRetrieval{}, nil, newFakeSessionStore(), nil)

	_, err := svc.Ask(context.Background(), "s1", "message")
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestAsk_RetrievalFailure(t *testing.T) {
	svc := newTestChat(&fakeRetrieval{err: assert.AnError}, &fakeLLM{response: "ok"}, newFakeSessionStore())

	_, err := svc.Ask(context.Background(), "s1", "message")
	assert.Error(t, err)
}

func TestAsk_EmptyContextStillAnswers(t *testing.T) {
	llm := &fakeLLM{response: "This information is not available in the provided context"}
	svc := newTestChat(&fakeRetrieval{}, llm, newFakeSessionStore())

	turn, err := svc.Ask(context.Background(), "s1", "obscure question")
	require.NoError(t, err)
	assert.NotEmpty(t, turn.Answer)
	assert.Empty(t, turn.Sources)
}

func TestAsk_CustomSystemPrompt(t *testing.T) {
	llm := &fakeLLM{response: "ok"}
	svc := newTestChat(&fakeRetrieval{}, llm, newFakeSessionStore())
	svc.SetPromptStore(&fakePromptStore{prompts: map[string]string{
		driven.PromptChatSystemEnglish: "CUSTOM SYSTEM %s",
	}})

	_, err := svc.Ask(context.Background(), "s1", "english question")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(llm.lastMessages[0].Content, "CUSTOM SYSTEM"))
}

func TestAskWithEvaluation(t *testing.T) {
	retrieval := &fakeRetrieval{docs: []domain.RetrievedDocument{
		doc("guide.pdf", 0, 1, "Dhaka is the capital.", 0.9),
	}}
	llm := &fakeLLM{response: "Dhaka."}
	evaluator := &fakeEvaluator{result: domain.Aggregate(
		domain.GroundednessResult{Score: 1.0, Supported: true},
		domain.RelevanceResult{Score: 1.0, RelevantDocs: 1, TotalDocs: 1},
	)}
	svc := NewChatService(retrieval, llm, newFakeSessionStore(), evaluator)

	result, err := svc.AskWithEvaluation(context.Background(), "s1", "What is the capital?")
	require.NoError(t, err)

	assert.Equal(t, "Dhaka.", result.Answer)
	assert.Equal(t, domain.QualityExcellent, result.Evaluation.Quality)

	// The evaluator saw the real artifacts of the turn.
	assert.Equal(t, 1, evaluator.calls)
	assert.Equal(t, "What is the capital?", evaluator.lastQuery)
	assert.Equal(t, "Dhaka.", evaluator.lastAnswer)
	assert.Contains(t, evaluator.lastCtx, "Dhaka is the capital.")
	require.Len(t, evaluator.lastDocs, 1)
}

func TestAskWithEvaluation_NoEvaluator(t *testing.T) {
	llm := &fakeLLM{response: "answer"}
	svc := NewChatService(&fakeRetrieval{}, llm, newFakeSessionStore(), nil)

	result, err := svc.AskWithEvaluation(context.Background(), "s1", "question")
	require.NoError(t, err)

	assert.Equal(t, "answer", result.Answer)
	assert.Zero(t, result.Evaluation.OverallScore)
	assert.Equal(t, domain.QualityPoor, result.Evaluation.Quality)
}

func TestHistoryAndClear(t *testing.T) {
	llm := &fakeLLM{response: "ok"}
	sessions := newFakeSessionStore()
	svc := newTestChat(&fakeRetrieval{}, llm, sessions)

	_, err := svc.Ask(context.Background(), "s1", "hello there")
	require.NoError(t, err)

	session, err := svc.History(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, session.Messages, 2)

	require.NoError(t, svc.ClearSession(context.Background(), "s1"))

	_, err = svc.History(context.Background(), "s1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessions(t *testing.T) {
	llm := &fakeLLM{response: "ok"}
	svc := newTestChat(&fakeRetrieval{}, llm, newFakeSessionStore())

	_, err := svc.Ask(context.Background(), "s1", "first")
	require.NoError(t, err)
	_, err = svc.Ask(context.Background(), "s2", "second")
	require.NoError(t, err)

	ids, err := svc.Sessions(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"s1", "s2"}, ids)
}

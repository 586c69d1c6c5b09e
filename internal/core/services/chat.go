package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mhire/khoji/internal/core/domain"
	"github.com/mhire/khoji/internal/core/ports/driven"
	"github.com/mhire/khoji/internal/core/ports/driving"
	"github.com/mhire/khoji/internal/language"
	"github.com/mhire/khoji/internal/logger"
)

// Ensure ChatService implements the interfaces.
var (
	_ driving.ChatService     = (*ChatService)(nil)
	_ driven.PromptStoreAware = (*ChatService)(nil)
)

// Generation parameters. Low temperature keeps answers anchored to the
// context; 1000 tokens accommodates full-document context answers.
const (
	chatMaxTokens   = 1000
	chatTemperature = 0.1
)

// historyWindow is how many recent messages accompany each generation
// call. Older history is kept in the session but not resent.
const historyWindow = 5

// Default chat system prompts by detected language. Each template takes
// the assembled context as its single placeholder and instructs the
// model to answer from the context only.
const (
	defaultSystemBengali = `আপনি একটি বিশেষজ্ঞ AI সহায়ক যিনি শুধুমাত্র প্রদত্ত প্রসঙ্গ থেকে উত্তর দেন।

প্রসঙ্গ:
%s

গুরুত্বপূর্ণ নির্দেশনা:
- অবশ্যই উপরের প্রসঙ্গের তথ্য ব্যবহার করে উত্তর দিন
- প্রসঙ্গে যা আছে শুধু তাই বলুন, নিজের থেকে কিছু যোগ করবেন না
- যদি প্রসঙ্গে সরাসরি উত্তর থাকে, তাহলে সংক্ষেপে এক লাইনে উত্তর দিন
- যদি প্রসঙ্গে উত্তর না থাকে, তাহলে স্পষ্ট করে বলুন "এই তথ্য প্রদত্ত প্রসঙ্গে নেই"
- বাংলায় উত্তর দিন
- অপ্রয়োজনীয় ব্যাখ্যা এড়িয়ে চলুন`

	defaultSystemMixed = `Apni ekti expert AI assistant jo ONLY provided context theke answer den.

Context:
%s

Important Instructions:
- MUST use ONLY the information from the context above
- Don't add your own knowledge, stick to the context
- If direct answer ache context e, then give short one-line answer
- If context e answer nai, clearly bolun "Ei information provided context e nai"
- Respond in mixed Bengali-English as appropriate
- Avoid unnecessary explanations`

	defaultSystemEnglish = `You are an expert AI assistant who answers ONLY from the provided context.

Context:
%s

Critical Instructions:
- MUST use ONLY the information from the context above
- Do not add your own knowledge or make assumptions
- If the context contains a direct answer, provide a concise one-line response
- If the answer is not in the context, clearly state "This information is not available in the provided context"
- Be precise and avoid unnecessary explanations
- Respond in English`
)

// Apology fallbacks returned when generation fails. The user gets a
// language-appropriate apology instead of an error.
const (
	apologyBengali = "দুঃখিত, আমি এই মুহূর্তে আপনার প্রশ্নের উত্তর দিতে পারছি না। অনুগ্রহ করে পরে আবার চেষ্টা করুন।"
	apologyEnglish = "I'm sorry, I'm unable to answer your question right now. Please try again later."
)

// ChatService answers queries from retrieved context, keeping
// per-session conversational history.
type ChatService struct {
	retrieval driving.RetrievalService
	llm       driven.LLMService
	evaluator driving.EvaluationService
	sessions  driven.SessionStore
	prompts   driven.PromptStore
}

// NewChatService creates a new chat service. The evaluator is optional;
// without one AskWithEvaluation degrades to worst-case scores.
func NewChatService(
	retrieval driving.RetrievalService,
	llm driven.LLMService,
	sessions driven.SessionStore,
	evaluator driving.EvaluationService,
) *ChatService {
	return &ChatService{
		retrieval: retrieval,
		llm:       llm,
		evaluator: evaluator,
		sessions:  sessions,
	}
}

// SetPromptStore sets the prompt store for loading customised system
// prompts. Without one the built-in prompts are used.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Ask retrieves context for the message, generates an answer
// conditioned on it, and appends both turns to the session.
func (s *ChatService) Ask(ctx context.Context, sessionID, message string) (*driving.ChatTurn, error) {
	start := time.Now()

	turn, _, _, err := s.answer(ctx, sessionID, message)
	if err != nil {
		return nil, err
	}
	turn.Elapsed = time.Since(start)
	return turn, nil
}

// AskWithEvaluation runs Ask and additionally evaluates the generated
// answer against the retrieved context and documents. Evaluation
// failures degrade to worst-case scores; they never fail the answer.
func (s *ChatService) AskWithEvaluation(ctx context.Context, sessionID, message string) (*driving.EvaluatedChatTurn, error) {
	start := time.Now()

	turn, ragCtx, docs, err := s.answer(ctx, sessionID, message)
	if err != nil {
		return nil, err
	}

	var evaluation domain.EvaluationResult
	if s.evaluator != nil {
		evaluation, err = s.evaluator.Evaluate(ctx, message, turn.Answer, ragCtx.Text, docs)
		if err != nil {
			return nil, fmt.Errorf("evaluating answer: %w", err)
		}
	} else {
		logger.Warn("No evaluator configured, reporting worst-case scores")
		evaluation = domain.Aggregate(
			domain.GroundednessResult{Analysis: "No evaluator configured"},
			domain.RelevanceResult{Analysis: "No evaluator configured", TotalDocs: len(docs)},
		)
	}

	turn.Elapsed = time.Since(start)
	return &driving.EvaluatedChatTurn{
		ChatTurn:   *turn,
		Evaluation: evaluation,
	}, nil
}

// answer runs the shared retrieve-generate-record pipeline and returns
// the turn plus the retrieval artifacts the evaluation path needs.
func (s *ChatService) answer(ctx context.Context, sessionID, message string) (*driving.ChatTurn, *domain.RAGContext, []domain.RetrievedDocument, error) {
	logger.Section("Chat")
	logger.Debug("Session: %q", sessionID)

	if sessionID == "" {
		return nil, nil, nil, fmt.Errorf("session id is required: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(message) == "" {
		return nil, nil, nil, fmt.Errorf("message is required: %w", domain.ErrInvalidInput)
	}
	if s.llm == nil {
		return nil, nil, nil, fmt.Errorf("chat: %w", domain.ErrLLMUnavailable)
	}

	lang := language.Detect(message)
	logger.Debug("Detected language: %s", lang)

	docs, ragCtx, err := s.retrieval.RetrieveForGeneration(ctx, message)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("retrieving context: %w", err)
	}
	if ragCtx.Empty() {
		logger.Warn("No context retrieved for session %q", sessionID)
	} else {
		logger.Debug("Context: %d documents, %d characters", ragCtx.TotalDocuments, ragCtx.Length)
	}

	history := s.recentHistory(ctx, sessionID)
	answer := s.generate(ctx, message, ragCtx.Text, lang, history)

	s.record(ctx, sessionID, message, answer, lang)

	return &driving.ChatTurn{
		SessionID: sessionID,
		Answer:    answer,
		Language:  lang,
		Sources:   ragCtx.Sources,
	}, ragCtx, docs, nil
}

// recentHistory returns the last messages of the session, oldest first.
// A missing session is an empty history, not an error.
func (s *ChatService) recentHistory(ctx context.Context, sessionID string) []domain.Message {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil
	}

	msgs := session.Messages
	if len(msgs) > historyWindow {
		msgs = msgs[len(msgs)-historyWindow:]
	}
	return msgs
}

// generate builds the conversation and calls the model. A generation
// failure yields a language-appropriate apology, never an error: the
// user always gets a response.
func (s *ChatService) generate(
	ctx context.Context, message, contextText string, lang domain.Language, history []domain.Message,
) string {
	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{
		Role:    domain.RoleSystem,
		Content: fmt.Sprintf(s.systemTemplate(lang), contextText),
	})
	for _, msg := range history {
		messages = append(messages, driven.ChatMessage{Role: msg.Role, Content: msg.Content})
	}
	messages = append(messages, driven.ChatMessage{Role: domain.RoleUser, Content: message})

	answer, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
	})
	if err != nil {
		logger.Error("Generation failed: %v", err)
		if lang == domain.LanguageBengali {
			return apologyBengali
		}
		return apologyEnglish
	}
	return strings.TrimSpace(answer)
}

// systemTemplate returns the system prompt template for the detected
// language, preferring the prompt store.
func (s *ChatService) systemTemplate(lang domain.Language) string {
	name, fallback := driven.PromptChatSystemEnglish, defaultSystemEnglish
	switch lang {
	case domain.LanguageBengali:
		name, fallback = driven.PromptChatSystemBengali, defaultSystemBengali
	case domain.LanguageMixed:
		name, fallback = driven.PromptChatSystemMixed, defaultSystemMixed
	}

	if s.prompts != nil {
		if tpl, err := s.prompts.Load(name); err == nil && tpl != "" {
			return tpl
		}
	}
	return fallback
}

// record appends the user and assistant turns to the session. Session
// write failures are logged, not surfaced; history is best-effort.
func (s *ChatService) record(ctx context.Context, sessionID, message, answer string, lang domain.Language) {
	now := time.Now().UTC()

	userMsg := domain.Message{Role: domain.RoleUser, Content: message, CreatedAt: now}
	if err := s.sessions.Append(ctx, sessionID, userMsg, lang); err != nil {
		logger.Warn("Recording user turn for %q failed: %v", sessionID, err)
		return
	}

	assistantMsg := domain.Message{Role: domain.RoleAssistant, Content: answer, CreatedAt: now}
	if err := s.sessions.Append(ctx, sessionID, assistantMsg, ""); err != nil {
		logger.Warn("Recording assistant turn for %q failed: %v", sessionID, err)
	}
}

// History returns the stored session.
func (s *ChatService) History(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading session %q: %w", sessionID, err)
	}
	return session, nil
}

// ClearSession removes a session and its history.
func (s *ChatService) ClearSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clearing session %q: %w", sessionID, err)
	}
	return nil
}

// Sessions returns the ids of all live sessions.
func (s *ChatService) Sessions(ctx context.Context) ([]string, error) {
	ids, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return ids, nil
}

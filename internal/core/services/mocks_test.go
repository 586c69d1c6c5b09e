package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/mhire/khoji/internal/core/domain"
	"github.com/mhire/khoji/internal/core/ports/driven"
)

// fakeEmbedder returns deterministic vectors and records batch calls.
type fakeEmbedder struct {
	mu         sync.Mutex
	batches    [][]string
	singles    []string
	dimensions int
	failAfter  int // fail on the Nth batch call (1-based), 0 = never
	err        error
}

func newFakeEmbedder() *fakeEmbedder {
	return &fakeEmbedder{dimensions: 4}
}

func (f *fakeEmbedder) vector(seed int) []float32 {
	v := make([]float32, f.dimensions)
	for i := range v {
		v[i] = float32(seed+i) * 0.1
	}
	return v
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.singles = append(f.singles, text)
	return f.vector(len(text)), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, texts)
	if f.failAfter > 0 && len(f.batches) >= f.failAfter {
		return nil, errors.New("embedding backend down")
	}
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = f.vector(i)
	}
	return vectors, nil
}

func (f *fakeEmbedder) Dimensions() int              { return f.dimensions }
func (f *fakeEmbedder) ModelName() string            { return "fake-embed" }
func (f *fakeEmbedder) Ping(_ context.Context) error { return nil }
func (f *fakeEmbedder) Close() error                 { return nil }

// fakeChunkStore holds chunks in memory and can fail specific insert
// calls.
type fakeChunkStore struct {
	mu          sync.Mutex
	chunks      map[string][]domain.Chunk
	deleted     []string
	insertCalls int
	failInserts map[int]bool // 1-based insert call numbers to fail
	insertErr   error
	deleteErr   error
}

func newFakeChunkStore() *fakeChunkStore {
	return &fakeChunkStore{
		chunks:      make(map[string][]domain.Chunk),
		failInserts: make(map[int]bool),
	}
}

func (f *fakeChunkStore) InsertChunks(_ context.Context, chunks []domain.Chunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if f.insertErr != nil {
		return f.insertErr
	}
	if f.failInserts[f.insertCalls] {
		return errors.New("insert failed")
	}
	for _, c := range chunks {
		f.chunks[c.SourceID] = append(f.chunks[c.SourceID], c)
	}
	return nil
}

func (f *fakeChunkStore) DeleteBySource(_ context.Context, sourceID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	f.deleted = append(f.deleted, sourceID)
	n := len(f.chunks[sourceID])
	delete(f.chunks, sourceID)
	return n, nil
}

func (f *fakeChunkStore) ListBySource(_ context.Context, sourceID string) ([]domain.Chunk, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chunks[sourceID], nil
}

func (f *fakeChunkStore) CountBySource(_ context.Context, sourceID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.chunks[sourceID]), nil
}

func (f *fakeChunkStore) ListSources(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id := range f.chunks {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeChunkStore) Close() error { return nil }

// fakeSearcher returns preset hits and records the options it was
// called with.
type fakeSearcher struct {
	hits     []domain.RetrievedDocument
	lastOpts driven.SearchOptions
	err      error
}

func (f *fakeSearcher) Search(_ context.Context, _ []float32, opts driven.SearchOptions) ([]domain.RetrievedDocument, error) {
	f.lastOpts = opts
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

func (f *fakeSearcher) Close() error { return nil }

// fakeLLM responds with a scripted reply and counts calls.
type fakeLLM struct {
	mu            sync.Mutex
	response      string
	err           error
	generateCalls int
	chatCalls     int
	lastPrompt    string
	lastMessages  []driven.ChatMessage
	lastChatOpts  driven.ChatOptions
	lastGenOpts   driven.GenerateOptions
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateCalls++
	f.lastPrompt = prompt
	f.lastGenOpts = opts
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls++
	f.lastMessages = messages
	f.lastChatOpts = opts
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) ModelName() string            { return "fake-llm" }
func (f *fakeLLM) Ping(_ context.Context) error { return nil }
func (f *fakeLLM) Close() error                 { return nil }

// fakeSessionStore is a map-backed SessionStore.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	appends  int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*domain.Session)}
}

func (f *fakeSessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, domain.ErrNotFound)
	}
	return s, nil
}

func (f *fakeSessionStore) Append(_ context.Context, id string, msg domain.Message, lang domain.Language) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appends++
	s, ok := f.sessions[id]
	if !ok {
		s = &domain.Session{ID: id}
		f.sessions[id] = s
	}
	s.Messages = append(s.Messages, msg)
	if lang != "" && s.Language == "" {
		s.Language = lang
	}
	return nil
}

func (f *fakeSessionStore) Clear(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func (f *fakeSessionStore) List(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id := range f.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// fakePromptStore serves prompts from a map.
type fakePromptStore struct {
	prompts map[string]string
}

func (f *fakePromptStore) Load(name string) (string, error) {
	p, ok := f.prompts[name]
	if !ok {
		return "", fmt.Errorf("prompt %q: %w", name, domain.ErrNotFound)
	}
	return p, nil
}

func (f *fakePromptStore) Reload() {}

// fakeRetrieval serves canned documents through the retrieval port.
type fakeRetrieval struct {
	docs []domain.RetrievedDocument
	err  error
}

func (f *fakeRetrieval) Retrieve(_ context.Context, _ string, _ int) ([]domain.RetrievedDocument, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func (f *fakeRetrieval) RetrieveContext(ctx context.Context, query string) (*domain.RAGContext, error) {
	_, ragCtx, err := f.RetrieveForGeneration(ctx, query)
	return ragCtx, err
}

func (f *fakeRetrieval) RetrieveForGeneration(_ context.Context, _ string) ([]domain.RetrievedDocument, *domain.RAGContext, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.docs, assembleContext(f.docs), nil
}

func (f *fakeRetrieval) Inspect(ctx context.Context, query string) (*domain.RetrievalInspection, error) {
	ragCtx, err := f.RetrieveContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &domain.RetrievalInspection{
		Query:            query,
		Context:          *ragCtx,
		RawDocumentCount: len(f.docs),
		RawDocuments:     f.docs,
	}, nil
}

// fakeEvaluator records what it was asked to evaluate.
type fakeEvaluator struct {
	result     domain.EvaluationResult
	err        error
	lastQuery  string
	lastAnswer string
	lastCtx    string
	lastDocs   []domain.RetrievedDocument
	calls      int
}

func (f *fakeEvaluator) Groundedness(_ context.Context, _, _ string) (domain.GroundednessResult, error) {
	return f.result.Groundedness, f.err
}

func (f *fakeEvaluator) Relevance(_ context.Context, _ string, docs []domain.RetrievedDocument) domain.RelevanceResult {
	return f.result.Relevance
}

func (f *fakeEvaluator) Evaluate(_ context.Context, query, answer, contextText string, docs []domain.RetrievedDocument) (domain.EvaluationResult, error) {
	f.calls++
	f.lastQuery = query
	f.lastAnswer = answer
	f.lastCtx = contextText
	f.lastDocs = docs
	return f.result, f.err
}

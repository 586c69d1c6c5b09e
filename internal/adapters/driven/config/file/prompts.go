package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mhire/khoji/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk, with
// fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when
// first accessed, not in the constructor.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts, used when user
// files don't exist and as the initial content for new files. They
// mirror the built-in prompts the services fall back to.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptChatSystemBengali: `আপনি একটি বিশেষজ্ঞ AI সহায়ক যিনি শুধুমাত্র প্রদত্ত প্রসঙ্গ থেকে উত্তর দেন।

প্রসঙ্গ:
%s

গুরুত্বপূর্ণ নির্দেশনা:
- অবশ্যই উপরের প্রসঙ্গের তথ্য ব্যবহার করে উত্তর দিন
- প্রসঙ্গে যা আছে শুধু তাই বলুন, নিজের থেকে কিছু যোগ করবেন না
- যদি প্রসঙ্গে সরাসরি উত্তর থাকে, তাহলে সংক্ষেপে এক লাইনে উত্তর দিন
- যদি প্রসঙ্গে উত্তর না থাকে, তাহলে স্পষ্ট করে বলুন "এই তথ্য প্রদত্ত প্রসঙ্গে নেই"
- বাংলায় উত্তর দিন
- অপ্রয়োজনীয় ব্যাখ্যা এড়িয়ে চলুন`,

	driven.PromptChatSystemMixed: `Apni ekti expert AI assistant jo ONLY provided context theke answer den.

Context:
%s

Important Instructions:
- MUST use ONLY the information from the context above
- Don't add your own knowledge, stick to the context
- If direct answer ache context e, then give short one-line answer
- If context e answer nai, clearly bolun "Ei information provided context e nai"
- Respond in mixed Bengali-English as appropriate
- Avoid unnecessary explanations`,

	driven.PromptChatSystemEnglish: `You are an expert AI assistant who answers ONLY from the provided context.

Context:
%s

Critical Instructions:
- MUST use ONLY the information from the context above
- Do not add your own knowledge or make assumptions
- If the context contains a direct answer, provide a concise one-line response
- If the answer is not in the context, clearly state "This information is not available in the provided context"
- Be precise and avoid unnecessary explanations
- Respond in English`,

	driven.PromptGroundednessJudge: `আপনি একটি RAG সিস্টেম মূল্যায়নকারী। নিচের উত্তরটি প্রদত্ত প্রসঙ্গ দ্বারা সমর্থিত কিনা তা মূল্যায়ন করুন।

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
বিশ্লেষণ: [সংক্ষিপ্ত ব্যাখ্যা]`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.khoji/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".khoji", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default
// files. Falls back to the embedded default if the file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Double-check so a concurrent load's value wins consistently.
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Khoji Prompts

This directory contains customisable prompts used by Khoji's LLM features.

## Files

- ` + "`chat_system_bengali.txt`" + ` - System prompt for Bengali queries
- ` + "`chat_system_mixed.txt`" + ` - System prompt for mixed Bengali-English queries
- ` + "`chat_system_english.txt`" + ` - System prompt for English queries
- ` + "`groundedness_judge.txt`" + ` - Rubric for the answer groundedness judge

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the
next command.

## Format Placeholders

The chat prompts take one %s placeholder (the retrieved context). The
judge prompt takes two %s placeholders (context, then answer) and its
response must keep the score and analysis labels, which the parser
matches verbatim.
`
	return os.WriteFile(path, []byte(content), 0600)
}

// Package chunker splits long text into bounded, sentence-aware chunks
// suitable for embedding.
//
// Boundaries prefer semantic break points: the last sentence terminator
// within a 500-character window before the tentative cut, then the last
// whitespace within a 100-character window, then a hard cut at exactly
// the maximum length. Lengths are counted in characters (runes), not
// bytes, so Bengali text chunks the same as ASCII.
package chunker

import (
	"strings"
	"unicode"
)

// DefaultMaxLength is the default chunk size ceiling in characters.
const DefaultMaxLength = 5500

// Backward search windows before a tentative cut.
const (
	sentenceSearchWindow   = 500
	whitespaceSearchWindow = 100
)

// Chunker splits text into chunks never exceeding a maximum length.
type Chunker struct {
	maxLength int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxLength sets the chunk size ceiling in characters.
func WithMaxLength(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxLength = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{maxLength: DefaultMaxLength}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MaxLength returns the configured chunk size ceiling.
func (c *Chunker) MaxLength() int {
	return c.maxLength
}

// Split divides text into chunks of at most the configured maximum
// length. Text at or under the maximum is returned unchanged as a
// single chunk. Empty chunks after trimming are discarded. Same input
// always yields the same chunk sequence.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) <= c.maxLength {
		return []string{text}
	}

	var chunks []string
	pos := 0

	for pos < len(runes) {
		end := pos + c.maxLength
		if end > len(runes) {
			end = len(runes)
		}

		// Not the last chunk: look for a better break point.
		if end < len(runes) {
			if cut := lastSentenceEnd(runes, pos, end); cut > pos {
				end = cut
			} else if cut := lastWhitespace(runes, pos, end); cut > pos {
				end = cut
			}
			// Otherwise hard cut at maxLength, possibly mid-word.
		}

		chunk := strings.TrimSpace(string(runes[pos:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		pos = end
	}

	return chunks
}

// isTerminator reports whether r ends a sentence. The danda (U+0964 is
// Devanagari; Bengali uses the same mark, "।") terminates Bengali prose.
func isTerminator(r rune) bool {
	return r == '।' || r == '.' || r == '!' || r == '?'
}

// lastSentenceEnd scans the window [end-500, end) for the last sentence
// terminator followed by whitespace, and returns the position just past
// that trailing whitespace run (capped at end). Returns pos when no
// terminator is found.
func lastSentenceEnd(runes []rune, pos, end int) int {
	start := end - sentenceSearchWindow
	if start < pos {
		start = pos
	}

	best := pos
	for i := start; i < end-1; i++ {
		if !isTerminator(runes[i]) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		// Advance past the whitespace run, staying inside the window.
		j := i + 1
		for j < end && unicode.IsSpace(runes[j]) {
			j++
		}
		if j > best {
			best = j
		}
	}
	return best
}

// lastWhitespace scans the window [end-100, end) for the start of the
// last whitespace run and returns it. Returns pos when the window holds
// no whitespace.
func lastWhitespace(runes []rune, pos, end int) int {
	start := end - whitespaceSearchWindow
	if start < pos {
		start = pos
	}

	best := pos
	for i := end - 1; i >= start; i-- {
		if !unicode.IsSpace(runes[i]) {
			continue
		}
		// Walk back to the start of this whitespace run.
		j := i
		for j > start && unicode.IsSpace(runes[j-1]) {
			j--
		}
		if j > best {
			best = j
		}
		break
	}
	return best
}

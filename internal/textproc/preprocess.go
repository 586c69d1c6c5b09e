// Package textproc prepares raw text for embedding and retrieval.
//
// Preprocessing is deliberately light: whitespace runs collapse to
// single spaces and characters outside the allow-list are stripped, but
// punctuation, digits and the full Bengali block survive so content
// structure is preserved.
package textproc

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)

	// Allow-list: Bengali block, letters and digits in any script
	// (\w would be ASCII-only here), underscore, common punctuation.
	// The explicit Bengali range also keeps combining vowel signs,
	// which \p{L} alone would not. Everything else is stripped.
	disallowed = regexp.MustCompile(`[^\x{0980}-\x{09FF}\p{L}\p{N}_\s.,;:!?()\-\[\]]`)
)

// Clean normalises text for embedding: collapses whitespace runs to
// single spaces, strips characters outside the allow-list, and trims.
// The result may be empty for input with no allowed characters.
func Clean(text string) string {
	text = whitespaceRun.ReplaceAllString(text, " ")
	text = disallowed.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

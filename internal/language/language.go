// Package language classifies text as Bengali, English or mixed by
// character-ratio heuristic over the Bengali Unicode block and ASCII
// letters. Detection is side-effect-free and never fails: text with no
// countable characters classifies as unknown.
package language

import (
	"unicode"

	"github.com/mhire/khoji/internal/core/domain"
)

// Ratio cutoffs. Above bengaliCutoff the text is Bengali, below
// englishCutoff it is English, in between it is mixed.
const (
	bengaliCutoff = 0.6
	englishCutoff = 0.2
)

// Detect classifies text by the ratio of Bengali-block characters to
// the total of Bengali-block characters and ASCII letters.
func Detect(text string) domain.Language {
	var bengali, english int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Bengali, r):
			bengali++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			english++
		}
	}

	total := bengali + english
	if total == 0 {
		return domain.LanguageUnknown
	}

	ratio := float64(bengali) / float64(total)
	switch {
	case ratio > bengaliCutoff:
		return domain.LanguageBengali
	case ratio < englishCutoff:
		return domain.LanguageEnglish
	default:
		return domain.LanguageMixed
	}
}

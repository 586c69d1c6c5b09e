package domain

// Language classifies text by script composition.
type Language string

// Recognised language classifications.
const (
	// LanguageBengali indicates predominantly Bengali-script text.
	LanguageBengali Language = "bengali"

	// LanguageEnglish indicates predominantly Latin-script text.
	LanguageEnglish Language = "english"

	// LanguageMixed indicates a substantial mix of Bengali and Latin script.
	LanguageMixed Language = "mixed"

	// LanguageUnknown indicates text with no countable script characters.
	LanguageUnknown Language = "unknown"
)

// String returns the string representation.
func (l Language) String() string {
	return string(l)
}

// IsValid returns true if the language is recognised.
func (l Language) IsValid() bool {
	switch l {
	case LanguageBengali, LanguageEnglish, LanguageMixed, LanguageUnknown:
		return true
	default:
		return false
	}
}

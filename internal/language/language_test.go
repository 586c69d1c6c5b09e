package language

import (
	"testing"

	"github.com/mhire/khoji/internal/core/domain"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want domain.Language
	}{
		{"pure bengali", "ঢাকা বাংলাদেশের রাজধানী", domain.LanguageBengali},
		{"pure english", "Dhaka is the capital of Bangladesh", domain.LanguageEnglish},
		{"mostly bengali", "ঢাকা বাংলাদেশের রাজধানী city", domain.LanguageBengali},
		{"empty", "", domain.LanguageUnknown},
		{"digits and punctuation only", "123 456 !?", domain.LanguageUnknown},
		{"bengali digits only", "১৯৭১", domain.LanguageBengali},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.in); got != tt.want {
				t.Fatalf("Detect(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestDetectMixed(t *testing.T) {
	// Roughly even split of Bengali and ASCII letters lands between
	// the two cutoffs.
	got := Detect("ঢাকা শহর is the capital city")
	if got != domain.LanguageMixed {
		t.Fatalf("got %s, want %s", got, domain.LanguageMixed)
	}
}

func TestDetectIgnoresWhitespaceAndDigits(t *testing.T) {
	// ASCII digits and whitespace are not counted on either side, so
	// they cannot tip the ratio.
	pure := Detect("ঢাকা")
	padded := Detect("   ঢাকা 12345   ")
	if pure != padded {
		t.Fatalf("padding changed detection: %s vs %s", pure, padded)
	}
}

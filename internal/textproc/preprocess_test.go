package textproc

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "a  b\t\tc\n\nd", "a b c d"},
		{"trims", "  hello  ", "hello"},
		{"keeps bengali", "ঢাকা বাংলাদেশের রাজধানী।", "ঢাকা বাংলাদেশের রাজধানী।"},
		{"keeps punctuation", "Wait, really? Yes! (see [1])", "Wait, really? Yes! (see [1])"},
		{"strips emoji", "hello😀world", "helloworld"},
		{"strips symbols", "price: $100!", "price: 100!"},
		{"stripping can leave doubled spaces", "a @ b", "a  b"},
		{"keeps accented latin", "café résumé", "café résumé"},
		{"keeps bengali digits", "১৯৭১ সালে", "১৯৭১ সালে"},
		{"keeps ascii digits", "chapter 12, page 34", "chapter 12, page 34"},
		{"empty input", "", ""},
		{"only disallowed", "☃☃☃", ""},
		{"mixed script", "ঢাকা is the capital", "ঢাকা is the capital"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Fatalf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	in := "  ঢাকা   is \t the capital!  "
	once := Clean(in)
	if twice := Clean(once); twice != once {
		t.Fatalf("Clean is not idempotent: %q then %q", once, twice)
	}
}

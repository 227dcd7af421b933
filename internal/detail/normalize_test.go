package detail

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"space runs", "a  \t b", "a b"},
		{"spaces around newlines", "a  \n  b", "a\nb"},
		{"newline runs", "a\n\n\n\n\nb", "a\n\nb"},
		{"keeps single break", "a\nb", "a\nb"},
		{"decodes entities", "Fish &amp; Chips &ndash; Friday", "Fish & Chips – Friday"},
		{"trims", "  \n hello \n ", "hello"},
		{"decoded nbsp collapses", "a&nbsp; b", "a b"},
		{"double encoded", "Q&amp;amp;A", "Q&A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input)
			if result != tt.expected {
				t.Errorf("Normalize(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"plain",
		"a \t b\n\n\n c",
		" &nbsp;\n&nbsp; x",
		"&amp;nbsp;&amp;nbsp;",
		"&#10;&#10;&#10;y",
		"tab&#9;&#9;space",
		"X\n \n \n \nY",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

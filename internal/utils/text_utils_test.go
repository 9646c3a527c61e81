package utils

import (
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"
)

func TestFitLength(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))

	cases := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"short", "Hello world."},
		{"exact", strings.Repeat("a", 50)},
		{"long", strings.Repeat("abcdefghij", 20)},
		{"multibyte", strings.Repeat("é€", 40)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tp.FitLength(tc.in, 50, "...", " filler.")
			if RuneLen(got) != 50 {
				t.Fatalf("expected 50 characters, got %d (%q)", RuneLen(got), got)
			}
		})
	}
}

func TestFitLengthTruncatesWithEllipsis(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))
	got := tp.FitLength(strings.Repeat("x", 20), 10, "...", "")
	if got != "xxxxxxx..." {
		t.Fatalf("unexpected truncation: %q", got)
	}
}

func TestFitLengthPadsWithFiller(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))
	got := tp.FitLength("Hi.", 12, "...", " ok.")
	if got != "Hi. ok. ok. " {
		t.Fatalf("unexpected padding: %q", got)
	}
}

func TestStripSignoffs(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))
	in := "Dear John,\n\nThe quarterly report is ready for [Team Name].\nPlease review it.\n\nBest regards,\nSarah\nHead of Finance"
	got := tp.StripSignoffs(in)
	if got != "The quarterly report is ready for . Please review it." {
		t.Fatalf("unexpected stripped text: %q", got)
	}
}

func TestStripSignoffsKeepsInlineWords(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))
	in := "Thanks to everyone who joined, the best part was the demo."
	if got := tp.StripSignoffs(in); got != in {
		t.Fatalf("inline words should survive, got %q", got)
	}
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))
	got := tp.SanitizeUTF8("ok\xffok")
	if got != "okok" {
		t.Fatalf("unexpected sanitized text: %q", got)
	}
}

func TestNormalizeComposesCharacters(t *testing.T) {
	tp := NewTextProcessor(zaptest.NewLogger(t))
	decomposed := "e\u0301"
	if got := tp.Normalize(decomposed); RuneLen(got) != 1 {
		t.Fatalf("expected a single composed character, got %q", got)
	}
}

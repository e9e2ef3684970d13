package naming_test

import (
	"strings"
	"testing"

	"scrivener/internal/naming"
)

func TestSanitizeRemovesIllegalCharacters(t *testing.T) {
	got := naming.Sanitize(`A/B: "Quoted?" <Name>|*`, 50, "_")
	if strings.ContainsAny(got, `<>:"/\|?*`) {
		t.Fatalf("illegal characters survived: %q", got)
	}
}

func TestSanitizeCollapsesWhitespace(t *testing.T) {
	if got := naming.Sanitize("Maps   of \t Meaning", 50, "_"); got != "Maps_of_Meaning" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeEmptyBecomesPlaceholder(t *testing.T) {
	for _, input := range []string{"", "   ", "???", "<<<>>>", "::"} {
		if got := naming.Sanitize(input, 50, "_"); got != naming.Placeholder {
			t.Fatalf("Sanitize(%q) = %q, want placeholder", input, got)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"Jordan Peterson: Maps of Meaning?",
		"EP. 42 — the answer",
		"  lots   of   space  ",
		"", "already_clean_token",
		"deep dive", "v1.2 release notes",
	}
	// Every separator validateNaming accepts.
	for _, separator := range []string{"_", "-", "."} {
		for _, input := range inputs {
			once := naming.Sanitize(input, 50, separator)
			twice := naming.Sanitize(once, 50, separator)
			if once != twice {
				t.Fatalf("not idempotent for %q with separator %q: %q then %q", input, separator, once, twice)
			}
		}
	}
}

func TestSanitizeDotSeparatorKeepsInsertedDots(t *testing.T) {
	if got := naming.Sanitize("deep dive", 50, "."); got != "deep.dive" {
		t.Fatalf("got %q, want %q", got, "deep.dive")
	}
	if got := naming.Sanitize("deep.dive", 50, "."); got != "deep.dive" {
		t.Fatalf("re-sanitize changed the token: got %q", got)
	}
}

func TestSanitizeTruncatesAndTrimsSeparator(t *testing.T) {
	got := naming.Sanitize("abcd efgh", 5, "_")
	if got != "abcd" {
		t.Fatalf("got %q, want %q (truncation must trim the trailing separator)", got, "abcd")
	}
}

func TestSanitizeYearCap(t *testing.T) {
	if got := naming.Sanitize("2024-05-01", naming.YearMaxLength, "_"); got != "2024" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeCustomSeparator(t *testing.T) {
	if got := naming.Sanitize("two words", 50, "-"); got != "two-words" {
		t.Fatalf("got %q", got)
	}
}

func TestSanitizeKeepsHyphens(t *testing.T) {
	if got := naming.Sanitize("self-titled album", 50, "_"); got != "self-titled_album" {
		t.Fatalf("got %q", got)
	}
}

package links_test

import (
	"fmt"
	"strings"
	"testing"

	"scrivener/internal/links"
)

func TestExtractNoURLs(t *testing.T) {
	if got := links.Extract("just text\nand more text"); len(got) != 0 {
		t.Fatalf("expected no links, got %+v", got)
	}
	if got := links.Extract(""); len(got) != 0 {
		t.Fatalf("expected no links for empty text, got %+v", got)
	}
}

func TestExtractSharedLineContext(t *testing.T) {
	got := links.Extract("Sponsors: https://a.example and https://b.example today")
	if len(got) != 2 {
		t.Fatalf("got %d links, want 2: %+v", len(got), got)
	}
	if got[0].URL != "https://a.example" || got[1].URL != "https://b.example" {
		t.Fatalf("urls wrong: %+v", got)
	}
	for i, link := range got {
		if link.Context != "Sponsors:  and  today" {
			t.Fatalf("link %d context = %q", i, link.Context)
		}
	}
}

func TestExtractContextTruncated(t *testing.T) {
	long := strings.Repeat("x", 150)
	got := links.Extract(long + " https://example.com/page")
	if len(got) != 1 {
		t.Fatalf("got %d links", len(got))
	}
	if len([]rune(got[0].Context)) != 100 {
		t.Fatalf("context length = %d, want 100", len([]rune(got[0].Context)))
	}
}

func TestExtractCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&b, "line %d https://example.com/%d\n", i, i)
	}
	got := links.Extract(b.String())
	if len(got) != links.MaxLinks {
		t.Fatalf("got %d links, want %d", len(got), links.MaxLinks)
	}
	if got[0].URL != "https://example.com/0" || got[19].URL != "https://example.com/19" {
		t.Fatalf("order wrong: first=%q last=%q", got[0].URL, got[19].URL)
	}
}

func TestExtractStopsAtAngleBracketsAndQuotes(t *testing.T) {
	got := links.Extract(`see <https://example.com/a> and "https://example.com/b"`)
	if len(got) != 2 {
		t.Fatalf("got %d links: %+v", len(got), got)
	}
	if got[0].URL != "https://example.com/a" || got[1].URL != "https://example.com/b" {
		t.Fatalf("urls include delimiters: %+v", got)
	}
}

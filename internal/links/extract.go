// Package links extracts hyperlinks and their surrounding context from free
// text such as video descriptions.
package links

import (
	"regexp"
	"strings"
)

// Link is one extracted URL with the non-URL remainder of its line as context.
type Link struct {
	URL     string `json:"url"`
	Context string `json:"context"`
}

const (
	// MaxLinks caps how many links are retained per source text.
	MaxLinks = 20
	// maxContextLen caps the context captured alongside each link.
	maxContextLen = 100
)

var urlPattern = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://[^\s<>"']+`)

// Extract scans text line by line and returns up to MaxLinks links in order
// of first appearance, top to bottom and left to right within a line. Every
// link found on one line shares that line's context: the line with all URL
// occurrences removed, trimmed, and truncated. Lines without URLs contribute
// nothing.
func Extract(text string) []Link {
	if text == "" {
		return nil
	}

	var links []Link
	for _, line := range strings.Split(text, "\n") {
		urls := urlPattern.FindAllString(line, -1)
		if len(urls) == 0 {
			continue
		}
		context := strings.TrimSpace(urlPattern.ReplaceAllString(line, ""))
		if runes := []rune(context); len(runes) > maxContextLen {
			context = string(runes[:maxContextLen])
		}
		for _, url := range urls {
			if len(links) == MaxLinks {
				return links
			}
			links = append(links, Link{URL: url, Context: context})
		}
	}
	return links
}

package naming

import (
	"regexp"
	"strings"
)

// Component max lengths used when composing filenames and folders.
const (
	AuthorMaxLength = 30
	FolderMaxLength = 50
	YearMaxLength   = 4
	TopicMaxLength  = 50

	// Placeholder substitutes for components that sanitize to nothing.
	Placeholder = "untitled"
)

var (
	illegalPattern    = regexp.MustCompile("[<>:\"/\\\\|?*\\x00-\\x1f]")
	nonWordPattern    = regexp.MustCompile(`[^\w\s-]`)
	nonWordDotPattern = regexp.MustCompile(`[^\w\s.-]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Sanitize turns arbitrary text into a filesystem-safe token no longer than
// maxLength, using separator in place of whitespace runs. The transform is
// deterministic and idempotent, and never returns an empty string: inputs
// that reduce to nothing become the "untitled" placeholder.
func Sanitize(text string, maxLength int, separator string) string {
	if separator == "" {
		separator = "_"
	}
	if maxLength <= 0 {
		maxLength = TopicMaxLength
	}

	// The active separator must survive removal; sanitizing already
	// sanitized output has to leave it unchanged.
	remover := nonWordPattern
	if strings.Contains(separator, ".") {
		remover = nonWordDotPattern
	}

	clean := illegalPattern.ReplaceAllString(text, "")
	clean = remover.ReplaceAllString(clean, "")
	clean = whitespacePattern.ReplaceAllString(strings.TrimSpace(clean), separator)

	// Collapse separator runs, which also covers separators adjacent to
	// removed characters.
	doubled := separator + separator
	for strings.Contains(clean, doubled) {
		clean = strings.ReplaceAll(clean, doubled, separator)
	}
	clean = strings.Trim(clean, separator)

	if runes := []rune(clean); len(runes) > maxLength {
		clean = strings.TrimRight(string(runes[:maxLength]), separator)
	}

	if clean == "" {
		return Placeholder
	}
	return clean
}

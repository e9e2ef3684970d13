package source

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"scrivener/internal/naming"
)

var topicPrefixPattern = regexp.MustCompile(`(?i)^(EP\.?\s*\d+[:\s-]*|#\d+[:\s-]*)`)

// DeriveNaming fills any empty naming fields from raw metadata. Author comes
// from the channel name, topic from the cleaned title, year from the upload
// date. Already-populated fields are left alone so user edits survive.
func DeriveNaming(v *Video) {
	if v.Naming.Author == "" {
		v.Naming.Author = deriveAuthor(v.Channel)
	}
	if v.Naming.Topic == "" {
		v.Naming.Topic = deriveTopic(v.Title, v.Channel)
	}
	if v.Naming.Year == "" {
		v.Naming.Year = deriveYear(v.UploadDate)
	}
}

func deriveAuthor(channel string) string {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return "Unknown"
	}
	// Handle-style names ("some-channel_name") read better title-cased with
	// the separators turned into spaces.
	if looksLikeHandle(channel) {
		cleaned := strings.Map(func(r rune) rune {
			if r == '-' || r == '_' || r == '.' {
				return ' '
			}
			return r
		}, strings.TrimPrefix(channel, "@"))
		cleaned = strings.Join(strings.Fields(cleaned), " ")
		if cleaned != "" {
			return cases.Title(language.Und).String(cleaned)
		}
	}
	return channel
}

func looksLikeHandle(channel string) bool {
	if strings.HasPrefix(channel, "@") {
		return true
	}
	hasSeparator := false
	for _, r := range channel {
		switch {
		case r == '-' || r == '_' || r == '.':
			hasSeparator = true
		case unicode.IsSpace(r) || unicode.IsUpper(r):
			return false
		}
	}
	return hasSeparator
}

func deriveTopic(title, channel string) string {
	topic := topicPrefixPattern.ReplaceAllString(title, "")
	if channel != "" {
		// Strip the channel name when it is embedded in the title.
		if idx := indexFold(topic, channel); idx >= 0 {
			topic = topic[:idx] + topic[idx+len(channel):]
		}
	}
	topic = strings.TrimSpace(topic)
	if runes := []rune(topic); len(runes) > 100 {
		topic = string(runes[:100])
	}
	if topic == "" {
		return "Untitled"
	}
	return topic
}

func indexFold(haystack, needle string) int {
	return strings.Index(strings.ToLower(haystack), strings.ToLower(needle))
}

func deriveYear(uploadDate string) string {
	if len(uploadDate) >= 4 {
		return uploadDate[:4]
	}
	return "Unknown"
}

// FormatDuration renders seconds as H:MM:SS or M:SS for display.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "Unknown"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatDate converts YYYYMMDD into YYYY-MM-DD, passing other values through.
func FormatDate(date string) string {
	if len(date) == 8 {
		return date[:4] + "-" + date[4:6] + "-" + date[6:]
	}
	if date == "" {
		return "Unknown"
	}
	return date
}

// ApplyOverrides applies command-line naming overrides to a video. Empty
// override values leave the derived field in place.
func ApplyOverrides(v *Video, overrides naming.Fields) {
	if strings.TrimSpace(overrides.Author) != "" {
		v.Naming.Author = strings.TrimSpace(overrides.Author)
	}
	if strings.TrimSpace(overrides.Topic) != "" {
		v.Naming.Topic = strings.TrimSpace(overrides.Topic)
	}
	if strings.TrimSpace(overrides.Year) != "" {
		v.Naming.Year = strings.TrimSpace(overrides.Year)
	}
}

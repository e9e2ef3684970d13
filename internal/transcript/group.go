package transcript

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one or more cues merged under a single displayed timestamp.
type Entry struct {
	Timestamp string
	Text      string
}

// FormatTimestamp renders a duration as "[H:MM:SS]" when it has a whole hour
// and "[MM:SS]" otherwise. The zero duration renders as "[00:00]", which also
// serves as the sentinel for content seen before any timing line.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("[%d:%02d:%02d]", h, m, s)
	}
	return fmt.Sprintf("[%02d:%02d]", m, s)
}

// Group coalesces consecutive cues sharing a formatted timestamp into single
// entries whose text is the space-joined concatenation of the grouped cues.
// A change in formatted timestamp always starts a new entry; cues are never
// reordered or merged across a timestamp change.
func Group(cues []Cue) []Entry {
	if len(cues) == 0 {
		return nil
	}

	entries := make([]Entry, 0, len(cues))
	current := FormatTimestamp(cues[0].Start)
	texts := []string{cues[0].Text}

	for _, cue := range cues[1:] {
		ts := FormatTimestamp(cue.Start)
		if ts != current {
			entries = append(entries, Entry{Timestamp: current, Text: strings.Join(texts, " ")})
			current = ts
			texts = texts[:0]
		}
		texts = append(texts, cue.Text)
	}
	entries = append(entries, Entry{Timestamp: current, Text: strings.Join(texts, " ")})

	return entries
}

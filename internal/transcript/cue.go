package transcript

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Cue is one timed caption unit extracted from a subtitle stream.
type Cue struct {
	Start time.Duration
	Text  string
}

var (
	// Matches the start of a cue timing line: "00:00:05.520 --> ..." or the
	// shorter "00:05.520 --> ..." variant.
	timingPattern = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{2})\.(\d+)\s*-->`)
	tagPattern    = regexp.MustCompile(`<[^>]+>`)
	digitsPattern = regexp.MustCompile(`^\d+$`)
)

// ParseCues turns raw subtitle markup into an ordered cue sequence.
//
// Header and metadata lines (the WEBVTT banner, Kind:/Language: declarations),
// blank lines, and pure sequence numbers are skipped. Timing lines advance the
// current time cursor using the start time truncated to whole seconds. Every
// other line is content: inline tags are stripped and exact duplicates of
// previously emitted text are discarded, which suppresses the rolling-line
// artifact in auto-generated captions. Content appearing before any timing
// line is stamped at zero. Empty input yields an empty sequence.
func ParseCues(raw string) []Cue {
	var (
		cues    []Cue
		cursor  time.Duration
		seen    = make(map[string]struct{})
		scanner = bufio.NewScanner(strings.NewReader(raw))
	)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || isHeaderLine(line) || digitsPattern.MatchString(line) {
			continue
		}

		if strings.Contains(line, "-->") {
			if start, ok := parseTimingStart(line); ok {
				cursor = start
			}
			continue
		}

		clean := strings.TrimSpace(tagPattern.ReplaceAllString(line, ""))
		if clean == "" {
			continue
		}
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		cues = append(cues, Cue{Start: cursor, Text: clean})
	}

	return cues
}

func isHeaderLine(line string) bool {
	return strings.HasPrefix(line, "WEBVTT") ||
		strings.HasPrefix(line, "Kind:") ||
		strings.HasPrefix(line, "Language:")
}

func parseTimingStart(line string) (time.Duration, bool) {
	match := timingPattern.FindStringSubmatch(line)
	if match == nil {
		return 0, false
	}
	hours := 0
	if match[1] != "" {
		hours, _ = strconv.Atoi(match[1])
	}
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])
	total := hours*3600 + minutes*60 + seconds
	return time.Duration(total) * time.Second, true
}

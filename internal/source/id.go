package source

import (
	"regexp"
	"strings"
)

var (
	idInURLPattern = regexp.MustCompile(`(?:v=|/v/|youtu\.be/|/embed/|/shorts/|/live/)([a-zA-Z0-9_-]{11})`)
	bareIDPattern  = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
)

// ExtractVideoID pulls the 11-character video ID out of the common URL
// shapes (watch?v=, youtu.be/, /v/, /embed/, /shorts/, /live/, with or
// without tracking parameters) or accepts a bare ID. The second return is
// false when no ID is present.
func ExtractVideoID(url string) (string, bool) {
	url = strings.TrimSpace(url)
	if match := idInURLPattern.FindStringSubmatch(url); match != nil {
		return match[1], true
	}
	if bareIDPattern.MatchString(url) {
		return url, true
	}
	return "", false
}

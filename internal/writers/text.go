package writers

import (
	"fmt"
	"strings"

	"scrivener/internal/source"
)

// Text renders a plain-text transcript for pasting into other tools.
type Text struct{}

func (Text) Extension() string { return "txt" }

func (Text) Write(video *source.Video, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", video.Title)
	fmt.Fprintf(&b, "%s — %s\n", video.Channel, video.UploadDateFormatted)
	fmt.Fprintf(&b, "https://youtube.com/watch?v=%s\n\n", video.ID)

	if len(video.Transcript) == 0 {
		b.WriteString("No transcript available\n")
	} else {
		for _, entry := range video.Transcript {
			fmt.Fprintf(&b, "%s %s\n", entry.Timestamp, entry.Text)
		}
	}

	return writeFile(path, []byte(b.String()))
}

package writers

import (
	"fmt"
	"strings"

	"scrivener/internal/source"
)

// Markdown renders the transcript as a Markdown document with a metadata
// block, link and chapter sections, and timestamp-prefixed paragraphs.
type Markdown struct{}

func (Markdown) Extension() string { return "md" }

func (Markdown) Write(video *source.Video, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", video.Title)
	fmt.Fprintf(&b, "**URL:** https://youtube.com/watch?v=%s  \n", video.ID)
	fmt.Fprintf(&b, "**Channel:** [%s](%s)  \n", video.Channel, video.ChannelURL)
	fmt.Fprintf(&b, "**Subscribers:** %d  \n", video.FollowerCount)
	fmt.Fprintf(&b, "**Date:** %s  \n", video.UploadDateFormatted)
	fmt.Fprintf(&b, "**Duration:** %s  \n", video.DurationFormatted)
	fmt.Fprintf(&b, "**Views:** %d · **Likes:** %d\n", video.ViewCount, video.LikeCount)

	if len(video.Links) > 0 {
		b.WriteString("\n## Links Mentioned\n\n")
		for _, link := range video.Links {
			if link.Context != "" {
				fmt.Fprintf(&b, "- <%s> — %s\n", link.URL, link.Context)
			} else {
				fmt.Fprintf(&b, "- <%s>\n", link.URL)
			}
		}
	}

	if len(video.Chapters) > 0 {
		b.WriteString("\n## Chapters\n\n")
		for _, ch := range video.Chapters {
			fmt.Fprintf(&b, "- **%s** — %s\n", chapterTimestamp(ch.Start), ch.Title)
		}
	}

	b.WriteString("\n---\n\n## Transcript\n\n")
	if len(video.Transcript) == 0 {
		b.WriteString("*No transcript available*\n")
	} else {
		for _, entry := range video.Transcript {
			fmt.Fprintf(&b, "**%s** %s\n\n", entry.Timestamp, entry.Text)
		}
	}

	return writeFile(path, []byte(b.String()))
}

package source

import (
	"context"

	"scrivener/internal/links"
	"scrivener/internal/naming"
	"scrivener/internal/transcript"
)

// Chapter is one chapter marker from video metadata.
type Chapter struct {
	Start int    `json:"start_time"`
	Title string `json:"title"`
}

// Video carries raw metadata for one video plus the user-editable naming
// fields and, after processing, its transcript and extracted links.
type Video struct {
	ID         string
	URL        string
	Title      string
	Channel    string
	ChannelURL string

	UploadDate          string // raw YYYYMMDD
	UploadDateFormatted string // YYYY-MM-DD
	Duration            int    // seconds
	DurationFormatted   string
	ViewCount           int64
	LikeCount           int64
	FollowerCount       int64
	Description         string

	Chapters []Chapter

	Naming   naming.Fields
	Selected bool

	Transcript []transcript.Entry
	Links      []links.Link
}

// Source retrieves metadata and raw cue streams for video identifiers.
// Implementations signal retrieval problems through the services error
// taxonomy; the batch coordinator records them per item and continues.
type Source interface {
	// FetchMetadata resolves a URL or bare ID into metadata with derived
	// naming fields. It does not fetch the transcript.
	FetchMetadata(ctx context.Context, url string) (*Video, error)
	// FetchCueText returns the raw subtitle cue text for a video ID. A video
	// without captions yields an empty string, not an error.
	FetchCueText(ctx context.Context, id string) (string, error)
}

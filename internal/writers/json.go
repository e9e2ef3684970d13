package writers

import (
	"encoding/json"
	"time"

	"scrivener/internal/links"
	"scrivener/internal/services"
	"scrivener/internal/source"
	"scrivener/internal/transcript"
)

// JSON renders structured metadata and the transcript for programmatic use.
type JSON struct{}

func (JSON) Extension() string { return "json" }

type jsonEntry struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

type jsonChapter struct {
	Timestamp string `json:"timestamp"`
	Title     string `json:"title"`
}

type jsonNaming struct {
	Author string `json:"author"`
	Topic  string `json:"topic"`
	Year   string `json:"year"`
}

type jsonDocument struct {
	ID                string        `json:"id"`
	URL               string        `json:"url"`
	Title             string        `json:"title"`
	Channel           string        `json:"channel"`
	ChannelURL        string        `json:"channel_url"`
	UploadDate        string        `json:"upload_date"`
	Duration          int           `json:"duration"`
	DurationFormatted string        `json:"duration_formatted"`
	ViewCount         int64         `json:"view_count"`
	LikeCount         int64         `json:"like_count"`
	Description       string        `json:"description"`
	Chapters          []jsonChapter `json:"chapters"`
	Links             []links.Link  `json:"links"`
	TranscriptEntries int           `json:"transcript_entries"`
	Transcript        []jsonEntry   `json:"transcript"`
	ProcessedAt       string        `json:"processed_at"`
	SavedAs           jsonNaming    `json:"saved_as"`
}

func (JSON) Write(video *source.Video, path string) error {
	doc := jsonDocument{
		ID:                video.ID,
		URL:               video.URL,
		Title:             video.Title,
		Channel:           video.Channel,
		ChannelURL:        video.ChannelURL,
		UploadDate:        video.UploadDateFormatted,
		Duration:          video.Duration,
		DurationFormatted: video.DurationFormatted,
		ViewCount:         video.ViewCount,
		LikeCount:         video.LikeCount,
		Description:       video.Description,
		Chapters:          make([]jsonChapter, 0, len(video.Chapters)),
		Links:             video.Links,
		TranscriptEntries: len(video.Transcript),
		Transcript:        entriesToJSON(video.Transcript),
		ProcessedAt:       time.Now().Format(time.RFC3339),
		SavedAs: jsonNaming{
			Author: video.Naming.Author,
			Topic:  video.Naming.Topic,
			Year:   video.Naming.Year,
		},
	}
	for _, ch := range video.Chapters {
		doc.Chapters = append(doc.Chapters, jsonChapter{Timestamp: chapterTimestamp(ch.Start), Title: ch.Title})
	}
	if doc.Links == nil {
		doc.Links = []links.Link{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrWrite, "writers", "encode json", video.ID, err)
	}
	return writeFile(path, append(data, '\n'))
}

func entriesToJSON(entries []transcript.Entry) []jsonEntry {
	out := make([]jsonEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, jsonEntry{Timestamp: entry.Timestamp, Text: entry.Text})
	}
	return out
}

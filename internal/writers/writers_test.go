package writers_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scrivener/internal/links"
	"scrivener/internal/naming"
	"scrivener/internal/source"
	"scrivener/internal/transcript"
	"scrivener/internal/writers"
)

func sampleVideo() *source.Video {
	return &source.Video{
		ID:                  "dQw4w9WgXcQ",
		URL:                 "https://youtu.be/dQw4w9WgXcQ",
		Title:               "A Talk",
		Channel:             "A Channel",
		ChannelURL:          "https://youtube.com/@achannel",
		UploadDateFormatted: "2024-03-15",
		Duration:            125,
		DurationFormatted:   "2:05",
		ViewCount:           1000,
		LikeCount:           100,
		Chapters:            []source.Chapter{{Start: 65, Title: "Intro"}},
		Links:               []links.Link{{URL: "https://example.com", Context: "sponsor"}},
		Naming:              naming.Fields{Author: "A Channel", Topic: "A Talk", Year: "2024"},
		Transcript: []transcript.Entry{
			{Timestamp: "[00:05]", Text: "hello there"},
			{Timestamp: "[00:08]", Text: "welcome back"},
		},
	}
}

func TestMarkdownWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "doc.md")
	if err := (writers.Markdown{}).Write(sampleVideo(), path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"# A Talk",
		"## Links Mentioned",
		"<https://example.com> — sponsor",
		"## Chapters",
		"**1:05** — Intro",
		"## Transcript",
		"**[00:05]** hello there",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestMarkdownWriteNoTranscript(t *testing.T) {
	video := sampleVideo()
	video.Transcript = nil
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := (writers.Markdown{}).Write(video, path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "*No transcript available*") {
		t.Fatalf("placeholder missing:\n%s", data)
	}
}

func TestJSONWriteRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := (writers.JSON{}).Write(sampleVideo(), path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc["id"] != "dQw4w9WgXcQ" {
		t.Fatalf("id = %v", doc["id"])
	}
	if doc["transcript_entries"] != float64(2) {
		t.Fatalf("transcript_entries = %v", doc["transcript_entries"])
	}
	saved, ok := doc["saved_as"].(map[string]any)
	if !ok || saved["author"] != "A Channel" || saved["year"] != "2024" {
		t.Fatalf("saved_as = %v", doc["saved_as"])
	}
}

func TestTextWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := (writers.Text{}).Write(sampleVideo(), path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, _ := os.ReadFile(path)
	out := string(data)
	if !strings.Contains(out, "[00:05] hello there") || !strings.Contains(out, "A Talk") {
		t.Fatalf("text output wrong:\n%s", out)
	}
}

func TestAllExtensions(t *testing.T) {
	got := map[string]bool{}
	for _, w := range writers.All() {
		got[w.Extension()] = true
	}
	for _, ext := range []string{"md", "json", "txt"} {
		if !got[ext] {
			t.Fatalf("missing writer for %s (have %v)", ext, got)
		}
	}
}

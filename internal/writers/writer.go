package writers

import (
	"fmt"
	"os"
	"path/filepath"

	"scrivener/internal/services"
	"scrivener/internal/source"
)

// Writer serializes one video's transcript and metadata to a resolved path.
// The core never inspects the produced format.
type Writer interface {
	// Extension is the file extension this writer produces, without the dot.
	Extension() string
	// Write renders the video to path. The parent directory already exists.
	Write(video *source.Video, path string) error
}

// All returns the default writer set: Markdown, JSON, and plain text.
func All() []Writer {
	return []Writer{Markdown{}, JSON{}, Text{}}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return services.Wrap(services.ErrWrite, "writers", "create directory", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return services.Wrap(services.ErrWrite, "writers", "write file", path, err)
	}
	return nil
}

func chapterTimestamp(start int) string {
	return fmt.Sprintf("%d:%02d", start/60, start%60)
}

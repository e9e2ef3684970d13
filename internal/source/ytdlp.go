package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"scrivener/internal/logging"
	"scrivener/internal/services"
)

// YtDlp fetches metadata and auto-generated captions by shelling out to the
// yt-dlp binary.
type YtDlp struct {
	binary   string
	language string
	tempDir  string
	timeout  time.Duration
	logger   *slog.Logger
}

// Options configures the yt-dlp source.
type Options struct {
	Binary   string
	Language string
	TempDir  string
	Timeout  time.Duration
	Logger   *slog.Logger
}

// NewYtDlp constructs the production source implementation.
func NewYtDlp(opts Options) *YtDlp {
	binary := opts.Binary
	if binary == "" {
		binary = "yt-dlp"
	}
	language := opts.Language
	if language == "" {
		language = "en"
	}
	tempDir := opts.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &YtDlp{
		binary:   binary,
		language: language,
		tempDir:  tempDir,
		timeout:  timeout,
		logger:   logger.With(logging.String(logging.FieldComponent, "source")),
	}
}

// infoJSON mirrors the subset of yt-dlp's .info.json this tool consumes.
type infoJSON struct {
	Title         string `json:"title"`
	Channel       string `json:"channel"`
	Uploader      string `json:"uploader"`
	ChannelURL    string `json:"channel_url"`
	UploadDate    string `json:"upload_date"`
	Duration      int    `json:"duration"`
	ViewCount     int64  `json:"view_count"`
	LikeCount     int64  `json:"like_count"`
	FollowerCount int64  `json:"channel_follower_count"`
	Description   string `json:"description"`
	Chapters      []struct {
		StartTime float64 `json:"start_time"`
		Title     string  `json:"title"`
	} `json:"chapters"`
}

// FetchMetadata resolves the URL to a video ID, downloads the metadata JSON,
// and builds a Video with derived naming fields. The transcript is not
// fetched here; preview during review must stay cheap.
func (y *YtDlp) FetchMetadata(ctx context.Context, url string) (*Video, error) {
	id, ok := ExtractVideoID(url)
	if !ok {
		return nil, services.Wrap(services.ErrInvalidIdentifier, "source", "extract id", fmt.Sprintf("no video ID in %q", url), nil)
	}

	base := filepath.Join(y.tempDir, "scrivener_meta_"+id)
	infoPath := base + ".info.json"
	defer os.Remove(infoPath)

	args := []string{
		"--write-info-json",
		"--skip-download",
		"--no-write-playlist-metafiles",
		"-o", base,
		watchURL(id),
	}
	if err := y.run(ctx, args); err != nil {
		return nil, services.Wrap(services.ErrFetch, "source", "fetch metadata", id, err)
	}

	data, err := os.ReadFile(infoPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrFetch, "source", "fetch metadata", fmt.Sprintf("%s: no metadata produced", id), nil)
		}
		return nil, services.Wrap(services.ErrFetch, "source", "read metadata", id, err)
	}

	var info infoJSON
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, services.Wrap(services.ErrFetch, "source", "decode metadata", id, err)
	}

	video := buildVideo(id, url, info)
	DeriveNaming(video)

	y.logger.Debug("metadata fetched",
		logging.String("video_id", id),
		logging.String("title", video.Title),
	)
	return video, nil
}

// FetchCueText downloads the auto-generated captions for a video and returns
// the raw VTT text. Videos without captions yield an empty string.
func (y *YtDlp) FetchCueText(ctx context.Context, id string) (string, error) {
	base := filepath.Join(y.tempDir, "scrivener_cues_"+id)
	vttPath := fmt.Sprintf("%s.%s.vtt", base, y.language)
	defer os.Remove(vttPath)

	args := []string{
		"--write-auto-sub",
		"--sub-lang", y.language,
		"--skip-download",
		"-o", base,
		watchURL(id),
	}
	if err := y.run(ctx, args); err != nil {
		return "", services.Wrap(services.ErrFetch, "source", "fetch captions", id, err)
	}

	data, err := os.ReadFile(vttPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			y.logger.Debug("no captions available", logging.String("video_id", id))
			return "", nil
		}
		return "", services.Wrap(services.ErrFetch, "source", "read captions", id, err)
	}
	return string(data), nil
}

func (y *YtDlp) run(ctx context.Context, args []string) error {
	runCtx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, y.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if runCtx.Err() != nil {
			return fmt.Errorf("%s timed out after %s", y.binary, y.timeout)
		}
		return fmt.Errorf("%s: %w: %s", y.binary, err, firstLine(output))
	}
	return nil
}

func firstLine(output []byte) string {
	for i, b := range output {
		if b == '\n' {
			return string(output[:i])
		}
	}
	return string(output)
}

func watchURL(id string) string {
	return "https://youtube.com/watch?v=" + id
}

func buildVideo(id, url string, info infoJSON) *Video {
	channel := info.Channel
	if channel == "" {
		channel = info.Uploader
	}
	title := info.Title
	if title == "" {
		title = "Untitled"
	}

	chapters := make([]Chapter, 0, len(info.Chapters))
	for _, ch := range info.Chapters {
		chapters = append(chapters, Chapter{Start: int(ch.StartTime), Title: ch.Title})
	}

	return &Video{
		ID:                  id,
		URL:                 url,
		Title:               title,
		Channel:             channel,
		ChannelURL:          info.ChannelURL,
		UploadDate:          info.UploadDate,
		UploadDateFormatted: FormatDate(info.UploadDate),
		Duration:            info.Duration,
		DurationFormatted:   FormatDuration(info.Duration),
		ViewCount:           info.ViewCount,
		LikeCount:           info.LikeCount,
		FollowerCount:       info.FollowerCount,
		Description:         info.Description,
		Chapters:            chapters,
		Selected:            true,
	}
}

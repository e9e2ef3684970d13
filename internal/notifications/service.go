package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"scrivener/internal/config"
)

const userAgent = "Scrivener/0.1.0"

// Service defines the notification surface exposed to batch components.
type Service interface {
	NotifyBatchStarted(ctx context.Context, count int) error
	NotifyBatchCompleted(ctx context.Context, succeeded, failed int, duration time.Duration) error
	NotifyTranscriptSaved(ctx context.Context, title, file string) error
	NotifyItemError(ctx context.Context, title string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyBatchStarted(ctx context.Context, count int) error {
	data := payload{
		title:   "Scrivener - Batch Started",
		message: fmt.Sprintf("Started processing batch with %d items", count),
		tags:    []string{"scrivener", "batch", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyBatchCompleted(ctx context.Context, succeeded, failed int, duration time.Duration) error {
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	durationText := duration.String()
	if duration == 0 {
		durationText = "0s"
	}

	var title string
	var message string
	if failed == 0 {
		title = "Scrivener - Batch Complete"
		message = fmt.Sprintf("Batch complete: %d transcripts saved in %s", succeeded, durationText)
	} else {
		title = "Scrivener - Batch Complete (with errors)"
		message = fmt.Sprintf("Batch complete: %d succeeded, %d failed in %s", succeeded, failed, durationText)
	}

	data := payload{
		title:   title,
		message: message,
		tags:    []string{"scrivener", "batch", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyTranscriptSaved(ctx context.Context, title, file string) error {
	title = strings.TrimSpace(title)
	file = strings.TrimSpace(file)
	message := fmt.Sprintf("Transcript saved: %s", title)
	if file != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, file)
	}
	data := payload{
		title:   "Scrivener - Saved",
		message: message,
		tags:    []string{"scrivener", "transcript", "saved"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyItemError(ctx context.Context, title string, err error) error {
	var builder strings.Builder
	builder.WriteString("Error")
	if title = strings.TrimSpace(title); title != "" {
		builder.WriteString(" with ")
		builder.WriteString(title)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Scrivener - Error",
		message:  builder.String(),
		tags:     []string{"scrivener", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Scrivener - Test",
		message:  "Notification system test",
		tags:     []string{"scrivener", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyBatchStarted(context.Context, int) error                       { return nil }
func (noopService) NotifyBatchCompleted(context.Context, int, int, time.Duration) error { return nil }
func (noopService) NotifyTranscriptSaved(context.Context, string, string) error         { return nil }
func (noopService) NotifyItemError(context.Context, string, error) error                { return nil }
func (noopService) TestNotification(context.Context) error                              { return nil }

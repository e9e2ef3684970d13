package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scrivener/internal/config"
	"scrivener/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyBatchStarted(context.Background(), 3); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsMessages(t *testing.T) {
	type captured struct {
		title    string
		message  string
		tags     string
		priority string
	}

	var got captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = captured{
			title:    r.Header.Get("Title"),
			message:  string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	tests := []struct {
		name           string
		send           func(context.Context) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "batch started",
			send: func(ctx context.Context) error {
				return svc.NotifyBatchStarted(ctx, 5)
			},
			expectTitle:   "Scrivener - Batch Started",
			expectMessage: "Started processing batch with 5 items",
			expectTags:    "scrivener,batch,started",
		},
		{
			name: "batch completed clean",
			send: func(ctx context.Context) error {
				return svc.NotifyBatchCompleted(ctx, 4, 0, 90*time.Second)
			},
			expectTitle:   "Scrivener - Batch Complete",
			expectMessage: "Batch complete: 4 transcripts saved in 1m30s",
			expectTags:    "scrivener,batch,completed",
		},
		{
			name: "batch completed with errors",
			send: func(ctx context.Context) error {
				return svc.NotifyBatchCompleted(ctx, 2, 1, 30*time.Second)
			},
			expectTitle:   "Scrivener - Batch Complete (with errors)",
			expectMessage: "Batch complete: 2 succeeded, 1 failed in 30s",
			expectTags:    "scrivener,batch,completed",
		},
		{
			name: "transcript saved",
			send: func(ctx context.Context) error {
				return svc.NotifyTranscriptSaved(ctx, "Deep Dive", "/out/Author/Deep_Dive_2024.md")
			},
			expectTitle:   "Scrivener - Saved",
			expectMessage: "Transcript saved: Deep Dive\nFile: /out/Author/Deep_Dive_2024.md",
			expectTags:    "scrivener,transcript,saved",
		},
		{
			name: "item error",
			send: func(ctx context.Context) error {
				return svc.NotifyItemError(ctx, "Broken Video", errors.New("no captions"))
			},
			expectTitle:    "Scrivener - Error",
			expectMessage:  "Error with Broken Video: no captions",
			expectTags:     "scrivener,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.send(context.Background()); err != nil {
				t.Fatalf("send notification: %v", err)
			}
			if got.title != tc.expectTitle {
				t.Fatalf("title = %q, want %q", got.title, tc.expectTitle)
			}
			if got.message != tc.expectMessage {
				t.Fatalf("message = %q, want %q", got.message, tc.expectMessage)
			}
			if got.tags != tc.expectTags {
				t.Fatalf("tags = %q, want %q", got.tags, tc.expectTags)
			}
			if got.priority != tc.expectPriority {
				t.Fatalf("priority = %q, want %q", got.priority, tc.expectPriority)
			}
		})
	}
}

func TestNtfyServiceReportsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic locked", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error from non-2xx response")
	}
}

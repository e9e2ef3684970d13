package batch_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scrivener/internal/batch"
	"scrivener/internal/logging"
	"scrivener/internal/naming"
	"scrivener/internal/services"
	"scrivener/internal/source"
	"scrivener/internal/testsupport"
)

const sampleCues = `WEBVTT
Kind: captions
Language: en

00:00.000 --> 00:02.500
hello and welcome back

00:02.500 --> 00:05.000
to the deep dive
`

type fakeSource struct {
	videos  map[string]*source.Video
	metaErr map[string]error
	cues    map[string]string
	cueErr  map[string]error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		videos:  map[string]*source.Video{},
		metaErr: map[string]error{},
		cues:    map[string]string{},
		cueErr:  map[string]error{},
	}
}

func (f *fakeSource) add(url, id, title, author string) {
	f.videos[url] = &source.Video{
		ID:      id,
		URL:     url,
		Title:   title,
		Channel: author,
		Naming:  naming.Fields{Author: author, Topic: strings.ReplaceAll(title, " ", "_"), Year: "2024"},
	}
	f.cues[id] = sampleCues
}

func (f *fakeSource) FetchMetadata(ctx context.Context, url string) (*source.Video, error) {
	if err, ok := f.metaErr[url]; ok {
		return nil, err
	}
	video, ok := f.videos[url]
	if !ok {
		return nil, services.Wrap(services.ErrInvalidIdentifier, "source", "fetch metadata", url, nil)
	}
	copied := *video
	return &copied, nil
}

func (f *fakeSource) FetchCueText(ctx context.Context, id string) (string, error) {
	if err, ok := f.cueErr[id]; ok {
		return "", err
	}
	return f.cues[id], nil
}

func newCoordinator(t *testing.T, src source.Source) (*batch.Coordinator, *batch.Store, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	coordinator, err := batch.NewCoordinator(cfg, store, src, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}
	return coordinator, store, cfg.Paths.OutputDir
}

func TestFetchDropsInvalidURLs(t *testing.T) {
	src := newFakeSource()
	src.add("https://youtu.be/aaaaaaaaaaa", "aaaaaaaaaaa", "First Talk", "Alice")
	src.add("https://youtu.be/bbbbbbbbbbb", "bbbbbbbbbbb", "Second Talk", "Bob")

	coordinator, store, _ := newCoordinator(t, src)
	ctx := context.Background()

	report, err := coordinator.Fetch(ctx, []string{
		"https://youtu.be/aaaaaaaaaaa",
		"not a video",
		"https://youtu.be/bbbbbbbbbbb",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(report.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(report.Items))
	}
	if len(report.Dropped) != 1 {
		t.Fatalf("expected 1 dropped URL, got %d", len(report.Dropped))
	}
	if report.Dropped[0].URL != "not a video" {
		t.Fatalf("dropped url = %q", report.Dropped[0].URL)
	}

	phase, _, err := store.Phase(ctx)
	if err != nil {
		t.Fatalf("Phase: %v", err)
	}
	if phase != batch.PhaseReview {
		t.Fatalf("phase = %q, want %q", phase, batch.PhaseReview)
	}
}

func TestFetchFailsWhenNothingFetchable(t *testing.T) {
	coordinator, store, _ := newCoordinator(t, newFakeSource())
	ctx := context.Background()

	if _, err := coordinator.Fetch(ctx, []string{"nope", "also nope"}); !errors.Is(err, services.ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}

	phase, _, err := store.Phase(ctx)
	if err != nil {
		t.Fatalf("Phase: %v", err)
	}
	if phase != batch.PhaseInput {
		t.Fatalf("phase = %q, want %q", phase, batch.PhaseInput)
	}
}

func TestFetchEnforcesBatchSizeLimit(t *testing.T) {
	src := newFakeSource()
	urls := make([]string, 0, 4)
	for _, id := range []string{"aaaaaaaaaaa", "bbbbbbbbbbb", "ccccccccccc", "ddddddddddd"} {
		url := "https://youtu.be/" + id
		src.add(url, id, "Talk "+id[:1], "Host")
		urls = append(urls, url)
	}

	cfg := testsupport.NewConfig(t, testsupport.WithBatchMaxSize(2))
	store := testsupport.MustOpenStore(t, cfg)
	coordinator, err := batch.NewCoordinator(cfg, store, src, nil, logging.NewNop())
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}

	report, err := coordinator.Fetch(context.Background(), urls)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(report.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(report.Items))
	}
	if len(report.Dropped) != 2 {
		t.Fatalf("expected 2 dropped, got %d", len(report.Dropped))
	}
}

func TestProcessRecordsOneResultPerItem(t *testing.T) {
	src := newFakeSource()
	src.add("https://youtu.be/aaaaaaaaaaa", "aaaaaaaaaaa", "First Talk", "Alice")
	src.add("https://youtu.be/bbbbbbbbbbb", "bbbbbbbbbbb", "Second Talk", "Bob")
	src.add("https://youtu.be/ccccccccccc", "ccccccccccc", "Third Talk", "Cara")
	src.cueErr["bbbbbbbbbbb"] = services.Wrap(services.ErrFetch, "source", "fetch cues", "subtitle download failed", nil)

	coordinator, store, outputDir := newCoordinator(t, src)
	ctx := context.Background()

	if _, err := coordinator.Fetch(ctx, []string{
		"https://youtu.be/aaaaaaaaaaa",
		"https://youtu.be/bbbbbbbbbbb",
		"https://youtu.be/ccccccccccc",
	}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	summary, err := coordinator.Process(ctx)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if summary.Success != 2 || summary.Errors != 1 || summary.Skipped != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	results, err := store.Results(ctx)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Status != batch.StatusSuccess || results[1].Status != batch.StatusError || results[2].Status != batch.StatusSuccess {
		t.Fatalf("statuses = %s, %s, %s", results[0].Status, results[1].Status, results[2].Status)
	}
	if results[1].Message == "" {
		t.Fatal("expected failure message on error result")
	}

	phase, _, err := store.Phase(ctx)
	if err != nil {
		t.Fatalf("Phase: %v", err)
	}
	if phase != batch.PhaseComplete {
		t.Fatalf("phase = %q, want %q", phase, batch.PhaseComplete)
	}

	// Successful items produce all three formats on disk.
	for _, ext := range []string{"md", "json", "txt"} {
		path := filepath.Join(outputDir, "Alice", "Alice_First_Talk_2024."+ext)
		if _, statErr := os.Stat(path); statErr != nil {
			t.Fatalf("expected output file %s: %v", path, statErr)
		}
	}
}

func TestProcessClassifiesInvalidIdentifierAsSkipped(t *testing.T) {
	src := newFakeSource()
	src.add("https://youtu.be/aaaaaaaaaaa", "aaaaaaaaaaa", "First Talk", "Alice")
	src.cueErr["aaaaaaaaaaa"] = services.Wrap(services.ErrInvalidIdentifier, "source", "fetch cues", "video removed", nil)

	coordinator, store, _ := newCoordinator(t, src)
	ctx := context.Background()

	if _, err := coordinator.Fetch(ctx, []string{"https://youtu.be/aaaaaaaaaaa"}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	summary, err := coordinator.Process(ctx)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if summary.Skipped != 1 || summary.Success != 0 || summary.Errors != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	results, err := store.Results(ctx)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 1 || results[0].Status != batch.StatusSkipped {
		t.Fatalf("results = %+v", results)
	}
}

func TestProcessUsesReviewEdits(t *testing.T) {
	src := newFakeSource()
	src.add("https://youtu.be/aaaaaaaaaaa", "aaaaaaaaaaa", "First Talk", "Alice")

	coordinator, store, outputDir := newCoordinator(t, src)
	ctx := context.Background()

	if _, err := coordinator.Fetch(ctx, []string{"https://youtu.be/aaaaaaaaaaa"}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	items, err := store.Items(ctx)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if err := store.UpdateNaming(ctx, items[0].ID, "Deep Dive Pod", "Better Title", "2020"); err != nil {
		t.Fatalf("UpdateNaming: %v", err)
	}

	if _, err := coordinator.Process(ctx); err != nil {
		t.Fatalf("Process: %v", err)
	}

	path := filepath.Join(outputDir, "Deep_Dive_Pod", "Deep_Dive_Pod_Better_Title_2020.md")
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected output at %s: %v", path, statErr)
	}
}

func TestProcessRequiresSelection(t *testing.T) {
	src := newFakeSource()
	src.add("https://youtu.be/aaaaaaaaaaa", "aaaaaaaaaaa", "First Talk", "Alice")

	coordinator, store, _ := newCoordinator(t, src)
	ctx := context.Background()

	if _, err := coordinator.Fetch(ctx, []string{"https://youtu.be/aaaaaaaaaaa"}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	items, err := store.Items(ctx)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if err := store.SetSelected(ctx, items[0].ID, false); err != nil {
		t.Fatalf("SetSelected: %v", err)
	}

	if _, err := coordinator.Process(ctx); !errors.Is(err, services.ErrEmptySelection) {
		t.Fatalf("expected ErrEmptySelection, got %v", err)
	}

	phase, _, err := store.Phase(ctx)
	if err != nil {
		t.Fatalf("Phase: %v", err)
	}
	if phase != batch.PhaseReview {
		t.Fatalf("phase = %q, want %q", phase, batch.PhaseReview)
	}
}

func TestProcessLogsCarryItemID(t *testing.T) {
	src := newFakeSource()
	src.add("https://youtu.be/aaaaaaaaaaa", "aaaaaaaaaaa", "First Talk", "Alice")

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	var logBuf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Format: "json", Writer: &logBuf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}

	coordinator, err := batch.NewCoordinator(cfg, store, src, nil, logger)
	if err != nil {
		t.Fatalf("NewCoordinator: %v", err)
	}

	ctx := context.Background()
	if _, err := coordinator.Fetch(ctx, []string{"https://youtu.be/aaaaaaaaaaa"}); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := coordinator.Process(ctx); err != nil {
		t.Fatalf("Process: %v", err)
	}

	items, err := store.Items(ctx)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	want := fmt.Sprintf(`"item_id":%d`, items[0].ID)
	if !strings.Contains(logBuf.String(), want) {
		t.Fatalf("log output missing %s:\n%s", want, logBuf.String())
	}
}

func TestProcessURLAppliesOverrides(t *testing.T) {
	src := newFakeSource()
	src.add("https://youtu.be/aaaaaaaaaaa", "aaaaaaaaaaa", "First Talk", "Alice")

	coordinator, _, outputDir := newCoordinator(t, src)

	video, files, err := coordinator.ProcessURL(context.Background(), "https://youtu.be/aaaaaaaaaaa",
		naming.Fields{Author: "Override Host", Year: "1999"})
	if err != nil {
		t.Fatalf("ProcessURL: %v", err)
	}
	if video.Naming.Author != "Override Host" {
		t.Fatalf("author override not applied: %q", video.Naming.Author)
	}
	if len(files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(files))
	}
	path := filepath.Join(outputDir, "Override_Host", "Override_Host_First_Talk_1999.md")
	if _, statErr := os.Stat(path); statErr != nil {
		t.Fatalf("expected output at %s: %v", path, statErr)
	}
}

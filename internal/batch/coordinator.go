package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"scrivener/internal/config"
	"scrivener/internal/links"
	"scrivener/internal/logging"
	"scrivener/internal/naming"
	"scrivener/internal/notifications"
	"scrivener/internal/services"
	"scrivener/internal/source"
	"scrivener/internal/transcript"
	"scrivener/internal/writers"
)

// Coordinator drives the batch workflow: it fetches metadata for submitted
// URLs, freezes the reviewed selection, and processes each item in order.
// One item's failure never aborts the run.
type Coordinator struct {
	cfg      *config.Config
	store    *Store
	src      source.Source
	notifier notifications.Service
	builder  *naming.Builder
	writers  []writers.Writer
	logger   *slog.Logger
}

// NewCoordinator wires the coordinator from configuration. The writer set
// defaults to all known output formats.
func NewCoordinator(cfg *config.Config, store *Store, src source.Source, notifier notifications.Service, logger *slog.Logger) (*Coordinator, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	builder, err := naming.NewBuilder(cfg.Paths.OutputDir,
		naming.WithSeparator(cfg.Naming.Separator),
		naming.WithTopicMaxLength(cfg.Naming.TopicMaxLength),
	)
	if err != nil {
		return nil, fmt.Errorf("configure output naming: %w", err)
	}
	return &Coordinator{
		cfg:      cfg,
		store:    store,
		src:      src,
		notifier: notifier,
		builder:  builder,
		writers:  writers.All(),
		logger:   logger.With(logging.String(logging.FieldComponent, "batch")),
	}, nil
}

// Dropped records a submitted URL that did not make it into the batch.
type Dropped struct {
	URL    string
	Reason string
}

// FetchReport summarizes the outcome of submitting URLs to a new batch.
type FetchReport struct {
	BatchID string
	Items   []Item
	Dropped []Dropped
}

// Fetch resolves metadata for each URL and opens a review batch from the
// results. Invalid or unreachable URLs are dropped with a warning rather
// than failing the submission. URLs beyond the configured batch size are
// dropped as well.
func (c *Coordinator) Fetch(ctx context.Context, urls []string) (*FetchReport, error) {
	report := &FetchReport{}

	maxSize := c.cfg.Batch.MaxSize
	for _, url := range urls {
		if maxSize > 0 && len(report.Items) >= maxSize {
			c.logger.Warn("batch is full, dropping URL", logging.String("url", url), logging.Int("max_size", maxSize))
			report.Dropped = append(report.Dropped, Dropped{URL: url, Reason: fmt.Sprintf("batch limited to %d items", maxSize)})
			continue
		}

		video, err := c.src.FetchMetadata(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("dropping URL", logging.String("url", url), logging.Error(err))
			report.Dropped = append(report.Dropped, Dropped{URL: url, Reason: err.Error()})
			continue
		}

		item, err := itemFromVideo(video)
		if err != nil {
			return nil, err
		}
		report.Items = append(report.Items, item)
	}

	if len(report.Items) == 0 {
		return nil, services.Wrap(services.ErrFetch, "batch", "fetch",
			fmt.Sprintf("none of the %d submitted URLs could be fetched", len(urls)), nil)
	}

	batchID, err := c.store.BeginBatch(ctx, report.Items)
	if err != nil {
		return nil, err
	}
	report.BatchID = batchID

	stored, err := c.store.Items(ctx)
	if err != nil {
		return nil, err
	}
	report.Items = stored

	c.logger.Info("batch ready for review",
		logging.String("batch_id", batchID),
		logging.Int("items", len(report.Items)),
		logging.Int("dropped", len(report.Dropped)))
	return report, nil
}

// Process runs the frozen selection to completion. It records one result per
// started item and moves the batch to complete when every item has been
// attempted. Cancellation stops before the next item; items never started
// produce no result and the batch stays in the processing phase.
func (c *Coordinator) Process(ctx context.Context) (Summary, error) {
	lock := flock.New(filepath.Join(c.cfg.Paths.StateDir, "batch.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return Summary{}, fmt.Errorf("acquire batch lock: %w", err)
	}
	if !locked {
		return Summary{}, fmt.Errorf("another scrivener process is already processing this batch")
	}
	defer func() { _ = lock.Unlock() }()

	frozen, err := c.store.BeginProcessing(ctx)
	if err != nil {
		return Summary{}, err
	}

	started := time.Now()
	if err := c.notifier.NotifyBatchStarted(ctx, len(frozen)); err != nil {
		c.logger.Warn("batch start notification failed", logging.Error(err))
	}

	var summary Summary
	for _, item := range frozen {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		itemCtx := services.WithItemID(ctx, item.ID)
		itemLog := logging.WithContext(itemCtx, c.logger)

		result := c.processItem(itemCtx, item)
		summary.add(result.Status)
		if err := c.store.AppendResult(ctx, result); err != nil {
			return summary, err
		}

		switch result.Status {
		case StatusSuccess:
			itemLog.Info("item processed",
				logging.String("title", item.Title),
				logging.Int("files", len(result.Files)))
		case StatusSkipped:
			itemLog.Warn("item skipped",
				logging.String("title", item.Title),
				logging.String("reason", result.Message))
		case StatusError:
			itemLog.Error("item failed",
				logging.String("title", item.Title),
				logging.String("error", result.Message))
			if notifyErr := c.notifier.NotifyItemError(ctx, item.Title, errors.New(result.Message)); notifyErr != nil {
				itemLog.Warn("item error notification failed", logging.Error(notifyErr))
			}
		}
	}

	if err := c.store.Complete(ctx); err != nil {
		return summary, err
	}
	elapsed := time.Since(started)
	failed := summary.Errors + summary.Skipped
	c.logger.Info("batch processed",
		logging.Int("saved", summary.Success),
		logging.Int("failed", failed),
		logging.Duration("elapsed", elapsed))
	if err := c.notifier.NotifyBatchCompleted(ctx, summary.Success, failed, elapsed); err != nil {
		c.logger.Warn("batch completion notification failed", logging.Error(err))
	}
	return summary, nil
}

// ProcessURL handles the single-video path: fetch, apply overrides, render.
// It does not touch the batch store.
func (c *Coordinator) ProcessURL(ctx context.Context, url string, overrides naming.Fields) (*source.Video, []string, error) {
	video, err := c.src.FetchMetadata(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	source.ApplyOverrides(video, overrides)

	files, err := c.render(ctx, video)
	if err != nil {
		return video, files, err
	}
	if len(files) > 0 {
		if notifyErr := c.notifier.NotifyTranscriptSaved(ctx, video.Title, files[0]); notifyErr != nil {
			c.logger.Warn("save notification failed", logging.Error(notifyErr))
		}
	}
	return video, files, nil
}

func (c *Coordinator) processItem(ctx context.Context, item Item) Result {
	result := Result{
		BatchID: item.BatchID,
		ItemID:  item.ID,
		VideoID: item.VideoID,
		URL:     item.URL,
		Title:   item.Title,
	}

	video, err := videoFromItem(ctx, c.src, item)
	if err == nil {
		var files []string
		files, err = c.render(ctx, video)
		result.Files = files
	}

	if err != nil {
		result.Message = err.Error()
		if errors.Is(err, services.ErrInvalidIdentifier) {
			result.Status = StatusSkipped
		} else {
			result.Status = StatusError
		}
		return result
	}

	result.Status = StatusSuccess
	return result
}

// render produces every configured output format for one video. Files already
// written stay on disk when a later step fails.
func (c *Coordinator) render(ctx context.Context, video *source.Video) ([]string, error) {
	cueText, err := c.src.FetchCueText(ctx, video.ID)
	if err != nil {
		return nil, err
	}
	video.Transcript = transcript.Group(transcript.ParseCues(cueText))

	if c.cfg.Source.IncludeLinks {
		video.Links = links.Extract(video.Description)
	} else {
		video.Links = nil
	}

	var files []string
	for _, writer := range c.writers {
		path, err := c.builder.UniquePath(video.Naming, writer.Extension())
		if err != nil {
			return files, err
		}
		if err := writer.Write(video, path); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	return files, nil
}

func itemFromVideo(video *source.Video) (Item, error) {
	metadataJSON, err := json.Marshal(video)
	if err != nil {
		return Item{}, fmt.Errorf("marshal video metadata: %w", err)
	}
	return Item{
		VideoID:      video.ID,
		URL:          video.URL,
		Title:        video.Title,
		Author:       video.Naming.Author,
		Topic:        video.Naming.Topic,
		Year:         video.Naming.Year,
		Selected:     true,
		MetadataJSON: string(metadataJSON),
	}, nil
}

// videoFromItem restores the metadata captured at fetch time and layers the
// review edits on top. Items persisted without metadata fall back to a fresh
// fetch.
func videoFromItem(ctx context.Context, src source.Source, item Item) (*source.Video, error) {
	var video *source.Video
	if item.MetadataJSON != "" {
		video = &source.Video{}
		if err := json.Unmarshal([]byte(item.MetadataJSON), video); err != nil {
			return nil, fmt.Errorf("unmarshal video metadata for item %d: %w", item.ID, err)
		}
	} else {
		fetched, err := src.FetchMetadata(ctx, item.URL)
		if err != nil {
			return nil, err
		}
		video = fetched
	}

	video.Naming = naming.Fields{Author: item.Author, Topic: item.Topic, Year: item.Year}
	video.Selected = item.Selected
	return video, nil
}

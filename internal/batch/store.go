package batch

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"scrivener/internal/config"
	"scrivener/internal/services"
)

// Store manages batch persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the batch database in the configured state directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.StateDir, "batch.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	return s.path
}

// Phase returns the current batch phase and the active batch identifier.
func (s *Store) Phase(ctx context.Context) (Phase, string, error) {
	var phase, batchID string
	err := s.db.QueryRowContext(ctx,
		"SELECT phase, batch_id FROM batch_state WHERE id = 1",
	).Scan(&phase, &batchID)
	if err != nil {
		return "", "", fmt.Errorf("read batch state: %w", err)
	}
	return Phase(phase), batchID, nil
}

// BeginBatch stores fetched items and moves the batch from input to review.
// The items keep their slice order as the frozen batch position.
func (s *Store) BeginBatch(ctx context.Context, items []Item) (string, error) {
	if len(items) == 0 {
		return "", services.Wrap(services.ErrTransition, "batch", "begin batch", "no items fetched; nothing to review", nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	phase, err := phaseInTx(ctx, tx)
	if err != nil {
		return "", err
	}
	if phase != PhaseInput {
		return "", services.Wrap(services.ErrTransition, "batch", "begin batch",
			fmt.Sprintf("cannot add items while batch is in %s phase; run 'scrivener batch reset' first", phase), nil)
	}

	batchID := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	for position, item := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO batch_items (
                batch_id, position, video_id, url, title, author, topic, year,
                selected, metadata_json, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			batchID, position, item.VideoID, item.URL, item.Title,
			item.Author, item.Topic, item.Year,
			boolToInt(item.Selected), item.MetadataJSON, now, now,
		); err != nil {
			return "", fmt.Errorf("insert batch item: %w", err)
		}
	}

	if err := setPhaseInTx(ctx, tx, PhaseReview, batchID); err != nil {
		return "", err
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit batch: %w", err)
	}
	return batchID, nil
}

// Items returns all items of the active batch in position order.
func (s *Store) Items(ctx context.Context) ([]Item, error) {
	_, batchID, err := s.Phase(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, batch_id, position, video_id, url, title, author, topic, year,
                selected, metadata_json, created_at, updated_at
         FROM batch_items WHERE batch_id = ? ORDER BY position`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query batch items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ItemByID returns one item of the active batch.
func (s *Store) ItemByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, batch_id, position, video_id, url, title, author, topic, year,
                selected, metadata_json, created_at, updated_at
         FROM batch_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("batch item %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateNaming edits the naming fields of an item during review.
// Empty field values leave the stored value untouched.
func (s *Store) UpdateNaming(ctx context.Context, id int64, author, topic, year string) error {
	if err := s.requirePhase(ctx, PhaseReview, "update naming"); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE batch_items SET
            author = CASE WHEN ? != '' THEN ? ELSE author END,
            topic  = CASE WHEN ? != '' THEN ? ELSE topic END,
            year   = CASE WHEN ? != '' THEN ? ELSE year END,
            updated_at = ?
         WHERE id = ?`,
		author, author, topic, topic, year, year,
		time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("update item naming: %w", err)
	}
	return requireRow(res, id)
}

// SetSelected marks an item as included in or excluded from processing.
func (s *Store) SetSelected(ctx context.Context, id int64, selected bool) error {
	if err := s.requirePhase(ctx, PhaseReview, "set selected"); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE batch_items SET selected = ?, updated_at = ? WHERE id = ?",
		boolToInt(selected), time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("update item selection: %w", err)
	}
	return requireRow(res, id)
}

// BeginProcessing freezes the selected subset and moves the batch to processing.
// The returned items are the frozen work list in position order.
func (s *Store) BeginProcessing(ctx context.Context) ([]Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	phase, err := phaseInTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	if phase != PhaseReview {
		return nil, services.Wrap(services.ErrTransition, "batch", "begin processing",
			fmt.Sprintf("cannot start processing from %s phase", phase), nil)
	}

	var batchID string
	if err := tx.QueryRowContext(ctx, "SELECT batch_id FROM batch_state WHERE id = 1").Scan(&batchID); err != nil {
		return nil, fmt.Errorf("read batch id: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, batch_id, position, video_id, url, title, author, topic, year,
                selected, metadata_json, created_at, updated_at
         FROM batch_items WHERE batch_id = ? AND selected = 1 ORDER BY position`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query selected items: %w", err)
	}

	var selected []Item
	for rows.Next() {
		item, scanErr := scanItem(rows)
		if scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		selected = append(selected, item)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if len(selected) == 0 {
		return nil, services.Wrap(services.ErrEmptySelection, "batch", "begin processing",
			"no items selected; select at least one item before processing", nil)
	}

	if err := setPhaseInTx(ctx, tx, PhaseProcessing, batchID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit processing transition: %w", err)
	}
	return selected, nil
}

// AppendResult records the outcome of one processed item.
func (s *Store) AppendResult(ctx context.Context, result Result) error {
	filesJSON, err := json.Marshal(result.Files)
	if err != nil {
		return fmt.Errorf("marshal result files: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO batch_results (
            batch_id, item_id, video_id, url, title, status, message, files_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.BatchID, result.ItemID, result.VideoID, result.URL, result.Title,
		string(result.Status), result.Message, string(filesJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("insert batch result: %w", err)
	}
	return nil
}

// Complete moves the batch from processing to complete.
func (s *Store) Complete(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	phase, err := phaseInTx(ctx, tx)
	if err != nil {
		return err
	}
	if phase != PhaseProcessing {
		return services.Wrap(services.ErrTransition, "batch", "complete",
			fmt.Sprintf("cannot complete batch from %s phase", phase), nil)
	}

	var batchID string
	if err := tx.QueryRowContext(ctx, "SELECT batch_id FROM batch_state WHERE id = 1").Scan(&batchID); err != nil {
		return fmt.Errorf("read batch id: %w", err)
	}
	if err := setPhaseInTx(ctx, tx, PhaseComplete, batchID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit completion: %w", err)
	}
	return nil
}

// Results returns all recorded results of the active batch in insertion order.
func (s *Store) Results(ctx context.Context) ([]Result, error) {
	_, batchID, err := s.Phase(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, batch_id, item_id, video_id, url, title, status, message, files_json, created_at
         FROM batch_results WHERE batch_id = ? ORDER BY id`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query batch results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			result    Result
			status    string
			filesJSON string
			createdAt string
		)
		if err := rows.Scan(&result.ID, &result.BatchID, &result.ItemID, &result.VideoID,
			&result.URL, &result.Title, &status, &result.Message, &filesJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan batch result: %w", err)
		}
		result.Status = ResultStatus(status)
		if err := json.Unmarshal([]byte(filesJSON), &result.Files); err != nil {
			return nil, fmt.Errorf("unmarshal result files: %w", err)
		}
		result.CreatedAt = parseTimestamp(createdAt)
		results = append(results, result)
	}
	return results, rows.Err()
}

// Summarize aggregates stored results into per-status counts.
func (s *Store) Summarize(ctx context.Context) (Summary, error) {
	results, err := s.Results(ctx)
	if err != nil {
		return Summary{}, err
	}
	var summary Summary
	for _, result := range results {
		summary.add(result.Status)
	}
	return summary, nil
}

// Reset clears all items and results and returns the batch to the input phase.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM batch_items"); err != nil {
		return fmt.Errorf("clear batch items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM batch_results"); err != nil {
		return fmt.Errorf("clear batch results: %w", err)
	}
	if err := setPhaseInTx(ctx, tx, PhaseInput, ""); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reset: %w", err)
	}
	return nil
}

func (s *Store) requirePhase(ctx context.Context, want Phase, operation string) error {
	phase, _, err := s.Phase(ctx)
	if err != nil {
		return err
	}
	if phase != want {
		return services.Wrap(services.ErrTransition, "batch", operation,
			fmt.Sprintf("operation requires %s phase, batch is in %s phase", want, phase), nil)
	}
	return nil
}

func phaseInTx(ctx context.Context, tx *sql.Tx) (Phase, error) {
	var phase string
	if err := tx.QueryRowContext(ctx, "SELECT phase FROM batch_state WHERE id = 1").Scan(&phase); err != nil {
		return "", fmt.Errorf("read batch phase: %w", err)
	}
	return Phase(phase), nil
}

func setPhaseInTx(ctx context.Context, tx *sql.Tx, phase Phase, batchID string) error {
	if _, err := tx.ExecContext(ctx,
		"UPDATE batch_state SET phase = ?, batch_id = ?, updated_at = ? WHERE id = 1",
		string(phase), batchID, time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("update batch phase: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (Item, error) {
	var (
		item      Item
		selected  int
		createdAt string
		updatedAt string
	)
	err := row.Scan(&item.ID, &item.BatchID, &item.Position, &item.VideoID, &item.URL,
		&item.Title, &item.Author, &item.Topic, &item.Year,
		&selected, &item.MetadataJSON, &createdAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return Item{}, err
		}
		return Item{}, fmt.Errorf("scan batch item: %w", err)
	}
	item.Selected = selected != 0
	item.CreatedAt = parseTimestamp(createdAt)
	item.UpdatedAt = parseTimestamp(updatedAt)
	return item, nil
}

func requireRow(res sql.Result, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("batch item %d not found", id)
	}
	return nil
}

func parseTimestamp(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

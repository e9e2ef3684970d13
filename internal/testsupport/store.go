package testsupport

import (
	"context"
	"testing"

	"scrivener/internal/batch"
	"scrivener/internal/config"
)

// MustOpenStore opens a batch.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *batch.Store {
	t.Helper()

	store, err := batch.Open(cfg)
	if err != nil {
		t.Fatalf("batch.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustBeginBatch seeds a review batch from the provided items.
func MustBeginBatch(t testing.TB, store *batch.Store, items []batch.Item) string {
	t.Helper()

	batchID, err := store.BeginBatch(context.Background(), items)
	if err != nil {
		t.Fatalf("store.BeginBatch: %v", err)
	}
	return batchID
}

// Package services defines the shared error taxonomy and context carriers
// used across scrivener components.
//
// Sentinel errors classify per-item failures (invalid identifier, fetch
// failure, naming exhaustion, write failure) and batch-level rejections
// (empty selection, illegal transition). Wrap attaches component and
// operation context while preserving the sentinel for errors.Is checks, so
// the batch coordinator can map any failure to a result status without
// string matching.
package services

package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidIdentifier marks item references that cannot be parsed into a
	// video ID. Items failing this way are skipped, never retried.
	ErrInvalidIdentifier = errors.New("invalid identifier")
	// ErrFetch marks metadata or cue-stream retrieval failures.
	ErrFetch = errors.New("fetch failure")
	// ErrNamingExhausted marks collision-suffix exhaustion in the path builder.
	ErrNamingExhausted = errors.New("naming exhausted")
	// ErrEmptySelection marks an attempted review-to-processing transition
	// with zero selected items.
	ErrEmptySelection = errors.New("empty selection")
	// ErrTransition marks an illegal batch phase transition.
	ErrTransition = errors.New("invalid transition")
	// ErrWrite marks output file write failures.
	ErrWrite = errors.New("write failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later status classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrFetch
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

// Package logging builds the slog loggers used across scrivener.
//
// It offers a console handler for interactive terminals and JSON output for
// everything else, selected automatically when no format is configured.
// Attr helpers and context field extraction keep structured keys consistent
// between components.
package logging

// Package writers serializes processed videos into the three output kinds:
// Markdown, JSON, and plain text. Writers are trusted collaborators; the
// coordinator hands them a structured video and a resolved path and only
// observes success or failure.
package writers

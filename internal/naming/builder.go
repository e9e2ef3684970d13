package naming

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scrivener/internal/services"
)

// maxCollisionAttempts caps numeric suffixing before the builder gives up.
const maxCollisionAttempts = 100

// Fields are the user-editable naming components driving output filenames.
type Fields struct {
	Author string
	Topic  string
	Year   string
}

// Builder composes deterministic, collision-free output paths from naming
// fields. The zero value is not usable; construct with NewBuilder.
type Builder struct {
	baseDir   string
	separator string
	topicMax  int
	expander  PathExpander
}

// Option customizes builder construction.
type Option func(*Builder)

// WithSeparator overrides the whitespace replacement character.
func WithSeparator(sep string) Option {
	return func(b *Builder) {
		if sep != "" {
			b.separator = sep
		}
	}
}

// WithTopicMaxLength overrides the topic component cap.
func WithTopicMaxLength(max int) Option {
	return func(b *Builder) {
		if max > 0 {
			b.topicMax = max
		}
	}
}

// WithExpander injects a path expansion strategy (used in tests).
func WithExpander(expander PathExpander) Option {
	return func(b *Builder) {
		if expander != nil {
			b.expander = expander
		}
	}
}

// NewBuilder creates a path builder rooted at baseDir. The base directory is
// expanded once, at construction.
func NewBuilder(baseDir string, opts ...Option) (*Builder, error) {
	b := &Builder{
		separator: "_",
		topicMax:  TopicMaxLength,
		expander:  OSExpander{},
	}
	for _, opt := range opts {
		opt(b)
	}
	expanded, err := b.expander.Expand(baseDir)
	if err != nil {
		return nil, fmt.Errorf("expand base directory: %w", err)
	}
	b.baseDir = expanded
	return b, nil
}

// BaseDir returns the expanded base directory.
func (b *Builder) BaseDir() string {
	return b.baseDir
}

// Filename composes "{author}_{topic}_{year}" from independently sanitized
// components. Components are never reordered and never empty.
func (b *Builder) Filename(f Fields) string {
	author := Sanitize(f.Author, AuthorMaxLength, b.separator)
	topic := Sanitize(f.Topic, b.topicMax, b.separator)
	year := Sanitize(f.Year, YearMaxLength, b.separator)
	return author + "_" + topic + "_" + year
}

// AuthorFolder returns the author subfolder name. It is sanitized with a
// longer cap than the author segment inside filenames, so the two may differ.
func (b *Builder) AuthorFolder(author string) string {
	return Sanitize(author, FolderMaxLength, b.separator)
}

// OutputPath joins base, author folder, filename, and extension, creating
// intermediate directories. Directory creation is idempotent.
func (b *Builder) OutputPath(author, filename, extension string) (string, error) {
	dir := filepath.Join(b.baseDir, b.AuthorFolder(author))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %q: %w", dir, err)
	}
	extension = strings.TrimPrefix(extension, ".")
	return filepath.Join(dir, filename+"."+extension), nil
}

// UniquePath returns a path for the given fields and extension that does not
// exist yet, appending _2, _3, ... to the base filename on collision. After
// 100 attempts it fails with a naming-exhausted error. The check-then-create
// sequence is not atomic; the sequential coordinator is the only writer.
func (b *Builder) UniquePath(f Fields, extension string) (string, error) {
	filename := b.Filename(f)

	path, err := b.OutputPath(f.Author, filename, extension)
	if err != nil {
		return "", err
	}
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		return path, nil
	}

	for counter := 2; counter <= maxCollisionAttempts; counter++ {
		numbered := fmt.Sprintf("%s_%d", filename, counter)
		path, err = b.OutputPath(f.Author, numbered, extension)
		if err != nil {
			return "", err
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			return path, nil
		}
	}

	return "", services.Wrap(
		services.ErrNamingExhausted,
		"naming",
		"unique path",
		fmt.Sprintf("too many files named %s", filename),
		nil,
	)
}

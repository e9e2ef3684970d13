package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	StateDir  string `toml:"state_dir"`
	LogDir    string `toml:"log_dir"`
}

// Naming contains filename composition settings.
type Naming struct {
	TopicMaxLength int    `toml:"topic_max_length"`
	Separator      string `toml:"separator"`
}

// Batch contains batch workflow settings.
type Batch struct {
	MaxSize int `toml:"max_size"`
}

// Source contains settings for the yt-dlp metadata/subtitle source.
type Source struct {
	Binary           string `toml:"binary"`
	SubtitleLanguage string `toml:"subtitle_language"`
	IncludeLinks     bool   `toml:"include_links"`
	FetchTimeout     int    `toml:"fetch_timeout"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for scrivener.
//
// Configuration sections by subsystem:
//   - Paths: transcript output base, batch state, and log directories
//   - Naming: filename component limits and the separator character
//   - Batch: review workflow limits
//   - Source: yt-dlp binary, subtitle language, and fetch behavior
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Naming        Naming        `toml:"naming"`
	Batch         Batch         `toml:"batch"`
	Source        Source        `toml:"source"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/scrivener/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("scrivener.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories. OutputDir is created on a
// best-effort basis so commands that never write transcripts still run when
// external storage is unavailable.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) != "" {
		_ = os.MkdirAll(c.Paths.OutputDir, 0o755)
	}
	return nil
}

// CreateSample writes the embedded sample configuration to the given path.
func CreateSample(path string) error {
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves home-directory shortcuts and environment variables and
// returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	pathValue = os.ExpandEnv(pathValue)
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

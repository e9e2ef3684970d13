package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeNaming()
	c.normalizeSource()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = ExpandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = ExpandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = ExpandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeNaming() {
	if c.Naming.TopicMaxLength <= 0 {
		c.Naming.TopicMaxLength = defaultTopicMaxLength
	}
	if c.Naming.Separator == "" {
		c.Naming.Separator = defaultSeparator
	}
}

func (c *Config) normalizeSource() {
	c.Source.Binary = strings.TrimSpace(c.Source.Binary)
	if c.Source.Binary == "" {
		c.Source.Binary = defaultSourceBinary
	}
	c.Source.SubtitleLanguage = strings.TrimSpace(c.Source.SubtitleLanguage)
	if c.Source.SubtitleLanguage == "" {
		c.Source.SubtitleLanguage = defaultSubtitleLanguage
	}
	if c.Source.FetchTimeout <= 0 {
		c.Source.FetchTimeout = defaultFetchTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

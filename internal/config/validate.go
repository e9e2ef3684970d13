package config

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateNaming(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateNaming() error {
	if c.Naming.TopicMaxLength < 4 {
		return errors.New("naming.topic_max_length must be at least 4")
	}
	if utf8.RuneCountInString(c.Naming.Separator) != 1 {
		return fmt.Errorf("naming.separator must be a single character, got %q", c.Naming.Separator)
	}
	switch c.Naming.Separator {
	case "_", "-", ".":
		return nil
	default:
		return fmt.Errorf("naming.separator must be one of _ - . , got %q", c.Naming.Separator)
	}
}

func (c *Config) validateBatch() error {
	if c.Batch.MaxSize < 1 {
		return errors.New("batch.max_size must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format must be auto, console, or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}

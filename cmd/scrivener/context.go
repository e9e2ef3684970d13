package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"scrivener/internal/batch"
	"scrivener/internal/config"
	"scrivener/internal/logging"
	"scrivener/internal/notifications"
	"scrivener/internal/source"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) openStore() (*batch.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return batch.Open(cfg)
}

func (c *commandContext) newSource() (source.Source, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return source.NewYtDlp(source.Options{
		Binary:   cfg.Source.Binary,
		Language: cfg.Source.SubtitleLanguage,
		Timeout:  time.Duration(cfg.Source.FetchTimeout) * time.Second,
		Logger:   c.ensureLogger(),
	}), nil
}

func (c *commandContext) newCoordinator(store *batch.Store) (*batch.Coordinator, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	src, err := c.newSource()
	if err != nil {
		return nil, err
	}
	return batch.NewCoordinator(cfg, store, src, notifications.NewService(cfg), c.ensureLogger())
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"catalog/internal/config"
	"catalog/internal/library"
	"catalog/internal/logging"
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
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// withLibrary loads the library, runs fn, and saves only when fn reports a
// mutation and returned no error.
func (c *commandContext) withLibrary(fn func(*library.Library) (bool, error)) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lib, err := library.Open(cfg.Paths.LibraryPath, cfg.Paths.DatastoreDir, c.ensureLogger())
	if err != nil {
		return err
	}
	mutated, err := fn(lib)
	if err != nil {
		return err
	}
	if mutated {
		return lib.Save()
	}
	return nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

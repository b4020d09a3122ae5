package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscriber(); err != nil {
		return err
	}
	if err := c.validateResegmenter(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.LibraryPath == "" {
		return errors.New("paths.library_path must be set")
	}
	if c.Paths.DatastoreDir == "" {
		return errors.New("paths.datastore_dir must be set")
	}
	return nil
}

func (c *Config) validateTranscriber() error {
	switch c.Transcriber.Device {
	case "cpu", "cuda":
	default:
		return fmt.Errorf("transcriber.device must be cpu or cuda, got %q", c.Transcriber.Device)
	}
	if c.Transcriber.DeviceIndex < 0 {
		return errors.New("transcriber.device_index must not be negative")
	}
	return nil
}

func (c *Config) validateResegmenter() error {
	if c.Resegmenter.Temperature < 0 || c.Resegmenter.Temperature > 2 {
		return errors.New("resegmenter.temperature must be between 0 and 2")
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.Threshold < 1 || c.Search.Threshold > 100 {
		return errors.New("search.threshold must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

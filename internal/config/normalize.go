package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscriber()
	c.normalizeResegmenter()
	c.normalizeEmbeddings()
	c.normalizeSearch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.LibraryPath, err = expandPath(c.Paths.LibraryPath); err != nil {
		return fmt.Errorf("paths.library_path: %w", err)
	}
	if c.Paths.DatastoreDir, err = expandPath(c.Paths.DatastoreDir); err != nil {
		return fmt.Errorf("paths.datastore_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.EmbeddingsPath) == "" {
		c.Paths.EmbeddingsPath = defaultEmbeddingsPath
	}
	if c.Paths.EmbeddingsPath, err = expandPath(c.Paths.EmbeddingsPath); err != nil {
		return fmt.Errorf("paths.embeddings_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.PointerDir) == "" {
		c.Paths.PointerDir = defaultPointerDir
	}
	if c.Paths.PointerDir, err = expandPath(c.Paths.PointerDir); err != nil {
		return fmt.Errorf("paths.pointer_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscriber() {
	c.Transcriber.Binary = strings.TrimSpace(c.Transcriber.Binary)
	if c.Transcriber.Binary == "" {
		c.Transcriber.Binary = defaultTranscriberBinary
	}
	c.Transcriber.Model = strings.TrimSpace(c.Transcriber.Model)
	if c.Transcriber.Model == "" {
		c.Transcriber.Model = defaultTranscriberModel
	}
	c.Transcriber.Device = strings.ToLower(strings.TrimSpace(c.Transcriber.Device))
	if c.Transcriber.Device == "" {
		c.Transcriber.Device = defaultTranscriberDevice
	}
	if c.Transcriber.BatchSize <= 0 {
		c.Transcriber.BatchSize = defaultTranscriberBatch
	}
	if c.Transcriber.HFToken == "" {
		if value, ok := os.LookupEnv("HF_TOKEN"); ok {
			c.Transcriber.HFToken = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeResegmenter() {
	c.Resegmenter.BaseURL = strings.TrimSpace(c.Resegmenter.BaseURL)
	if c.Resegmenter.APIKey == "" {
		if value, ok := os.LookupEnv("CATALOG_RESEGMENT_API_KEY"); ok {
			c.Resegmenter.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Resegmenter.Model == "" {
		c.Resegmenter.Model = defaultResegmenterModel
	}
	if c.Resegmenter.Temperature == 0 {
		c.Resegmenter.Temperature = defaultResegmenterTemp
	}
	if c.Resegmenter.MaxTokens <= 0 {
		c.Resegmenter.MaxTokens = defaultResegmenterTokens
	}
	if c.Resegmenter.TimeoutSeconds <= 0 {
		c.Resegmenter.TimeoutSeconds = defaultResegmenterTimeout
	}
}

func (c *Config) normalizeEmbeddings() {
	c.Embeddings.BaseURL = strings.TrimSpace(c.Embeddings.BaseURL)
	if c.Embeddings.APIKey == "" {
		if value, ok := os.LookupEnv("CATALOG_EMBEDDINGS_API_KEY"); ok {
			c.Embeddings.APIKey = strings.TrimSpace(value)
		}
	}
	if c.Embeddings.Model == "" {
		c.Embeddings.Model = defaultEmbeddingsModel
	}
	if c.Embeddings.Dimensionality <= 0 {
		c.Embeddings.Dimensionality = defaultEmbeddingsDims
	}
	if c.Embeddings.MaxEntries <= 0 {
		c.Embeddings.MaxEntries = defaultEmbeddingsEntries
	}
	if c.Embeddings.TimeoutSeconds <= 0 {
		c.Embeddings.TimeoutSeconds = defaultEmbeddingsTimeout
	}
}

func (c *Config) normalizeSearch() {
	if c.Search.Threshold <= 0 {
		c.Search.Threshold = defaultSearchThreshold
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = defaultSearchMaxResults
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
}

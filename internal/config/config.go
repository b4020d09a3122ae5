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

// Paths contains file and directory configuration.
type Paths struct {
	LibraryPath    string `toml:"library_path"`
	DatastoreDir   string `toml:"datastore_dir"`
	EmbeddingsPath string `toml:"embeddings_path"`
	PointerDir     string `toml:"pointer_dir"`
	LogDir         string `toml:"log_dir"`
}

// Transcriber contains configuration for the external transcription tool.
type Transcriber struct {
	Binary       string `toml:"binary"`
	Model        string `toml:"model"`
	Device       string `toml:"device"`
	DeviceIndex  int    `toml:"device_index"`
	BatchSize    int    `toml:"batch_size"`
	HFToken      string `toml:"hf_token"`
	SpeakerCount int    `toml:"speaker_count"`
}

// Resegmenter contains connection settings for the text resegmentation
// service that turns flat transcripts into sectioned speech data.
type Resegmenter struct {
	BaseURL        string  `toml:"base_url"`
	APIKey         string  `toml:"api_key"`
	Model          string  `toml:"model"`
	Temperature    float64 `toml:"temperature"`
	MaxTokens      int     `toml:"max_tokens"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// Embeddings contains connection settings for the embedding service and the
// sidecar vector index.
type Embeddings struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	Dimensionality int    `toml:"dimensionality"`
	MaxEntries     int    `toml:"max_entries"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Search contains defaults for the search commands.
type Search struct {
	Threshold  int `toml:"threshold"`
	MaxResults int `toml:"max_results"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the catalog CLI.
//
// Configuration sections by subsystem:
//   - Paths: library document, datastore, embeddings sidecar, pointers, logs
//   - Transcriber: external WhisperX-style tool invocation settings
//   - Resegmenter: external resegmentation service connection
//   - Embeddings: embedding service connection and sidecar sizing
//   - Search: fuzzy threshold and result cap defaults
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Transcriber Transcriber `toml:"transcriber"`
	Resegmenter Resegmenter `toml:"resegmenter"`
	Embeddings  Embeddings  `toml:"embeddings"`
	Search      Search      `toml:"search"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/catalog/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file was actually found at the resolved path.
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
		expanded, err := expandPath(path)
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

	projectPath, err := filepath.Abs("catalog.toml")
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

// EnsureDirectories creates the datastore, pointer, and log directories plus
// the parents of the library and embeddings files.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.DatastoreDir,
		c.Paths.PointerDir,
		c.Paths.LogDir,
		filepath.Dir(c.Paths.LibraryPath),
		filepath.Dir(c.Paths.EmbeddingsPath),
	}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// CreateSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func CreateSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(expanded, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %s: %w", trimmed, err)
	}
	return abs, nil
}

// ExpandPath expands a user-supplied path, resolving tilde shortcuts and
// producing an absolute path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

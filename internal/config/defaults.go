package config

const (
	defaultLibraryPath        = "~/.config/catalog/library.json"
	defaultDatastoreDir       = "~/.local/share/catalog/datastore"
	defaultEmbeddingsPath     = "~/.local/share/catalog/embeddings.json"
	defaultPointerDir         = "~/.local/share/catalog/pointers"
	defaultLogDir             = "~/.local/share/catalog/logs"
	defaultTranscriberBinary  = "whisperx"
	defaultTranscriberModel   = "large-v2"
	defaultTranscriberDevice  = "cpu"
	defaultTranscriberBatch   = 16
	defaultResegmenterModel   = "claude-sonnet"
	defaultResegmenterTemp    = 0.4
	defaultResegmenterTokens  = 4096
	defaultResegmenterTimeout = 120
	defaultEmbeddingsModel    = "nomic-embed-text-v1.5"
	defaultEmbeddingsDims     = 768
	defaultEmbeddingsEntries  = 400
	defaultEmbeddingsTimeout  = 60
	defaultSearchThreshold    = 80
	defaultSearchMaxResults   = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryPath:    defaultLibraryPath,
			DatastoreDir:   defaultDatastoreDir,
			EmbeddingsPath: defaultEmbeddingsPath,
			PointerDir:     defaultPointerDir,
			LogDir:         defaultLogDir,
		},
		Transcriber: Transcriber{
			Binary:    defaultTranscriberBinary,
			Model:     defaultTranscriberModel,
			Device:    defaultTranscriberDevice,
			BatchSize: defaultTranscriberBatch,
		},
		Resegmenter: Resegmenter{
			Model:          defaultResegmenterModel,
			Temperature:    defaultResegmenterTemp,
			MaxTokens:      defaultResegmenterTokens,
			TimeoutSeconds: defaultResegmenterTimeout,
		},
		Embeddings: Embeddings{
			Model:          defaultEmbeddingsModel,
			Dimensionality: defaultEmbeddingsDims,
			MaxEntries:     defaultEmbeddingsEntries,
			TimeoutSeconds: defaultEmbeddingsTimeout,
		},
		Search: Search{
			Threshold:  defaultSearchThreshold,
			MaxResults: defaultSearchMaxResults,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// Package whisper runs the external WhisperX transcriber as a subprocess
// and converts its JSON output into transcript entries.
package whisper

package whisper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"catalog/internal/locator"
	"catalog/internal/media"
)

// DefaultBinary is the transcriber executable when none is configured.
const DefaultBinary = "whisperx"

// Params describes one transcription run and doubles as the provenance
// block stored with the resulting transcript.
type Params struct {
	Model         string
	Device        string
	DeviceIndex   int
	BatchSize     int
	Diarize       bool
	SpeakerCount  int
	InitialPrompt string
	HFToken       string
}

// Segment is one time-aligned unit of transcriber output.
type Segment struct {
	Start   float64 `json:"start"`
	End     float64 `json:"end"`
	Text    string  `json:"text"`
	Speaker string  `json:"speaker,omitempty"`
	Words   []Word  `json:"words,omitempty"`
}

// Word is a word-level alignment within a segment.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start,omitempty"`
	End   float64 `json:"end,omitempty"`
	Score float64 `json:"score,omitempty"`
}

type payload struct {
	Segments []Segment `json:"segments"`
}

// Service invokes the transcriber binary. The zero value is not usable;
// construct with NewService.
type Service struct {
	binary        string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a transcription service around the given binary.
func NewService(binary string) *Service {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Service{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Transcribe runs the transcriber on an audio file and returns the aligned
// segments. The call blocks until the subprocess exits and is not retried.
func (s *Service) Transcribe(ctx context.Context, audioPath string, params Params) ([]Segment, error) {
	if audioPath == "" {
		return nil, errors.New("transcribe: audio path required")
	}
	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	outputDir, err := os.MkdirTemp("", "catalog-transcribe-*")
	if err != nil {
		return nil, fmt.Errorf("transcribe: temp dir: %w", err)
	}
	defer os.RemoveAll(outputDir)

	args := buildArgs(audioPath, outputDir, params)
	if err := s.run(ctx, s.binary, args...); err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	segments, err := LoadSegments(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	return segments, nil
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func buildArgs(audioPath, outputDir string, params Params) []string {
	args := []string{
		audioPath,
		"--output_dir", outputDir,
		"--output_format", "json",
	}
	if params.Model != "" {
		args = append(args, "--model", params.Model)
	}
	if params.Device != "" {
		args = append(args, "--device", params.Device)
		if params.Device == "cuda" {
			args = append(args, "--device_index", strconv.Itoa(params.DeviceIndex))
		}
	}
	if params.Device == "cpu" {
		args = append(args, "--compute_type", "int8")
	}
	if params.BatchSize > 0 {
		args = append(args, "--batch_size", strconv.Itoa(params.BatchSize))
	}
	if params.InitialPrompt != "" {
		args = append(args, "--initial_prompt", params.InitialPrompt)
	}
	if params.Diarize {
		args = append(args, "--diarize")
		if params.SpeakerCount > 0 {
			count := strconv.Itoa(params.SpeakerCount)
			args = append(args, "--min_speakers", count, "--max_speakers", count)
		}
		if params.HFToken != "" {
			args = append(args, "--hf_token", params.HFToken)
		}
	}
	return args
}

// LoadSegments parses a transcriber JSON output file.
func LoadSegments(jsonPath string) ([]Segment, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse transcriber json: %w", err)
	}
	return p.Segments, nil
}

// BuildTranscript wraps transcriber segments into a transcript entry with a
// provenance block.
func BuildTranscript(segments []Segment, params Params, version string) media.Transcript {
	transcript := media.Transcript{
		ID:         locator.NewID(),
		DateStored: time.Now().UTC(),
		Params: media.TranscriptionParams{
			WhisperVersion: version,
			InitialPrompt:  params.InitialPrompt,
			Diarize:        params.Diarize,
			SpeakerCount:   params.SpeakerCount,
			Device:         params.Device,
			BatchSize:      params.BatchSize,
		},
	}
	for i, segment := range segments {
		node := media.TranscriptNode{
			Index:   i,
			Start:   segment.Start,
			End:     segment.End,
			Speaker: segment.Speaker,
			Content: strings.TrimSpace(segment.Text),
		}
		for _, word := range segment.Words {
			node.Words = append(node.Words, media.WordAlignment{
				Word:  word.Word,
				Start: word.Start,
				End:   word.End,
				Score: word.Score,
			})
		}
		transcript.Nodes = append(transcript.Nodes, node)
	}
	return transcript
}

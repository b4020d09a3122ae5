package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"catalog/internal/library"
	"catalog/internal/media"
	"catalog/internal/services/whisper"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var model string
	var device string
	var deviceIndex int
	var batchSize int
	var diarize bool
	var speakers int
	var prompt string
	var missing bool

	cmd := &cobra.Command{
		Use:   "transcribe <media-id>...",
		Short: "Transcribe audio or video objects",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !missing {
				return fmt.Errorf("provide media IDs or --missing")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			params := whisper.Params{
				Model:         cfg.Transcriber.Model,
				Device:        cfg.Transcriber.Device,
				DeviceIndex:   cfg.Transcriber.DeviceIndex,
				BatchSize:     cfg.Transcriber.BatchSize,
				HFToken:       cfg.Transcriber.HFToken,
				SpeakerCount:  cfg.Transcriber.SpeakerCount,
				InitialPrompt: prompt,
				Diarize:       diarize,
			}
			if model != "" {
				params.Model = model
			}
			if device != "" {
				params.Device = device
			}
			if cmd.Flags().Changed("device-index") {
				params.DeviceIndex = deviceIndex
			}
			if batchSize > 0 {
				params.BatchSize = batchSize
			}
			if speakers > 0 {
				params.SpeakerCount = speakers
				params.Diarize = true
			}

			binary := cfg.Transcriber.Binary
			if binary == "" {
				binary = whisper.DefaultBinary
			}
			svc := whisper.NewService(binary)

			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				objects, err := transcribeTargets(lib, args, missing)
				if err != nil {
					return false, err
				}
				if len(objects) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to transcribe")
					return false, nil
				}

				out := cmd.OutOrStdout()
				mutated := false
				for _, obj := range objects {
					if !obj.Kind.CanTranscribe() {
						fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %s objects have no audio\n", obj.ShortID(), obj.Kind)
						continue
					}
					if obj.FilePath == "" {
						fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: no backing file\n", obj.ShortID())
						continue
					}
					fmt.Fprintf(out, "Transcribing %s (%s)...\n", obj.ShortID(), obj.DisplayName())
					segments, err := svc.Transcribe(cmd.Context(), obj.FilePath, params)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "transcribe %s: %v\n", obj.ShortID(), err)
						continue
					}
					transcript := whisper.BuildTranscript(segments, params, "")
					obj.Transcripts = append(obj.Transcripts, transcript)
					obj.Metadata.DateModified = time.Now().UTC()
					mutated = true
					fmt.Fprintf(out, "Stored transcript %s with %d segment(s)\n", shortID(transcript.ID), len(transcript.Nodes))
				}
				return mutated, nil
			})
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Transcription model override")
	cmd.Flags().StringVar(&device, "device", "", "Compute device (cpu or cuda)")
	cmd.Flags().IntVar(&deviceIndex, "device-index", 0, "CUDA device index")
	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "Inference batch size")
	cmd.Flags().BoolVar(&diarize, "diarize", false, "Run speaker diarization")
	cmd.Flags().IntVar(&speakers, "speakers", 0, "Expected speaker count (implies --diarize)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Initial prompt passed to the transcriber")
	cmd.Flags().BoolVar(&missing, "missing", false, "Transcribe every eligible object without a transcript")
	return cmd
}

func transcribeTargets(lib *library.Library, args []string, missing bool) ([]*media.Object, error) {
	if !missing {
		return fetchObjects(lib, args)
	}
	var objects []*media.Object
	for _, obj := range lib.Objects() {
		if obj.Kind.CanTranscribe() && obj.FilePath != "" && len(obj.Transcripts) == 0 {
			objects = append(objects, obj)
		}
	}
	return objects, nil
}

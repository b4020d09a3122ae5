package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"catalog/internal/library"
	"catalog/internal/locator"
	"catalog/internal/media"
	"catalog/internal/services/resegment"
	"catalog/internal/speech"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var model string
	var temperature float64
	var maxTokens int
	var missing bool

	cmd := &cobra.Command{
		Use:   "process <locator>...",
		Short: "Resegment transcripts into sectioned speech data",
		Long: `Resegment a transcript into a hierarchical, sectioned speech-data entry
using the configured resegmentation service. A bare media ID processes the
object's most recent transcript; a transcript locator selects a specific one.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && !missing {
				return fmt.Errorf("provide locators or --missing")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Resegmenter.BaseURL == "" {
				return fmt.Errorf("processing requires [resegmenter] base_url in the configuration")
			}

			client := resegment.NewClient(resegment.Config{
				APIKey:         cfg.Resegmenter.APIKey,
				BaseURL:        cfg.Resegmenter.BaseURL,
				Model:          cfg.Resegmenter.Model,
				Temperature:    cfg.Resegmenter.Temperature,
				MaxTokens:      cfg.Resegmenter.MaxTokens,
				TimeoutSeconds: cfg.Resegmenter.TimeoutSeconds,
			})

			params := map[string]any{}
			if model != "" {
				params["model"] = model
			}
			if cmd.Flags().Changed("temperature") {
				params["temperature"] = temperature
			}
			if maxTokens > 0 {
				params["max_tokens"] = maxTokens
			}

			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				targets, err := processTargets(lib, args, missing)
				if err != nil {
					return false, err
				}
				if len(targets) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Nothing to process")
					return false, nil
				}

				out := cmd.OutOrStdout()
				mutated := false
				for _, target := range targets {
					fmt.Fprintf(out, "Processing %s...\n", target.obj.ShortID())
					entry, err := speech.Prepare(cmd.Context(), target.obj, target.selector, client, params)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "process %s: %v\n", target.obj.ShortID(), err)
						continue
					}
					target.obj.Metadata.DateModified = time.Now().UTC()
					mutated = true
					fmt.Fprintf(out, "Stored speech data %s: %d section(s), %d node(s)\n",
						shortID(entry.ID), len(entry.Sections), len(entry.Nodes))
				}
				return mutated, nil
			})
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Resegmentation model override")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "Sampling temperature override")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "Completion token limit override")
	cmd.Flags().BoolVar(&missing, "missing", false, "Process every transcribed object without speech data")
	return cmd
}

type processTarget struct {
	obj      *media.Object
	selector string
}

func processTargets(lib *library.Library, args []string, missing bool) ([]processTarget, error) {
	if missing {
		var targets []processTarget
		for _, obj := range lib.Objects() {
			if len(obj.Transcripts) > 0 && len(obj.SpeechData) == 0 {
				targets = append(targets, processTarget{obj: obj, selector: "-1"})
			}
		}
		return targets, nil
	}

	targets := make([]processTarget, 0, len(args))
	for _, arg := range args {
		loc, err := locator.Parse(arg)
		if err != nil {
			return nil, err
		}
		obj, err := lib.FetchObject(loc.MediaID)
		if err != nil {
			return nil, err
		}
		selector := "-1"
		if loc.EntryType != "" {
			if loc.EntryType != string(media.EntryTranscripts) {
				return nil, fmt.Errorf("%s: only transcripts can be processed", arg)
			}
			if loc.EntryID != "" {
				selector = loc.EntryID
			}
		}
		targets = append(targets, processTarget{obj: obj, selector: selector})
	}
	return targets, nil
}

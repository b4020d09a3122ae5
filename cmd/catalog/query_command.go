package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"catalog/internal/export"
	"catalog/internal/library"
	"catalog/internal/locator"
	"catalog/internal/media"
)

func newQueryCommand(ctx *commandContext) *cobra.Command {
	var timestamps bool
	var speakerNames []string

	cmd := &cobra.Command{
		Use:   "query <locator>",
		Short: "Show an object, entry, or node range",
		Long: `Show library content addressed by a locator:

  <media-id>                                   object details
  <media-id>:<entry-type>:<entry-id>           rendered entry
  <media-id>:<entry-type>:<entry-id>.nodes:N   node text
  <media-id>:<entry-type>:<entry-id>.nodes:N-M node range

Media and entry IDs may be prefixes; entry IDs also accept a list index or
-1 for the most recent entry.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locator.Parse(args[0])
			if err != nil {
				return err
			}
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				if loc.Subfield != "" {
					text, err := lib.ResolveLocator(args[0])
					if err != nil {
						return false, err
					}
					fmt.Fprintln(cmd.OutOrStdout(), text)
					return false, nil
				}

				obj, err := lib.FetchObject(loc.MediaID)
				if err != nil {
					return false, err
				}
				if loc.EntryType == "" {
					return false, printObject(cmd, lib, obj)
				}

				entryType, err := media.ParseEntryType(loc.EntryType)
				if err != nil {
					return false, err
				}
				sel := loc.EntryID
				if sel == "" {
					sel = "-1"
				}
				opts := export.RenderOptions{Timestamps: timestamps, SpeakerNames: speakerNames}
				return false, printEntry(cmd, obj, entryType, sel, opts)
			})
		},
	}

	cmd.Flags().BoolVar(&timestamps, "timestamps", false, "Include inline timestamps in transcript output")
	cmd.Flags().StringSliceVar(&speakerNames, "names", nil, "Speaker names in diarization order")
	return cmd
}

func printObject(cmd *cobra.Command, lib *library.Library, obj *media.Object) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %s\n", obj.ID)
	fmt.Fprintf(out, "Kind:     %s\n", obj.Kind)
	fmt.Fprintf(out, "Name:     %s\n", obj.DisplayName())
	fmt.Fprintf(out, "Recorded: %s\n", formatDate(obj.Metadata.DateRecorded))
	fmt.Fprintf(out, "Stored:   %s\n", formatDate(obj.Metadata.DateStored))
	if obj.FilePath != "" {
		fmt.Fprintf(out, "File:     %s\n", obj.FilePath)
	}
	if obj.Metadata.URL != "" {
		fmt.Fprintf(out, "URL:      %s\n", obj.Metadata.URL)
	}
	if obj.Description != "" {
		fmt.Fprintf(out, "About:    %s\n", obj.Description)
	}

	if len(obj.Metadata.Tags) > 0 {
		fmt.Fprint(out, "Tags:    ")
		for _, ta := range obj.Metadata.Tags {
			name, err := lib.TagName(ta.TagID, true)
			if err != nil {
				name = shortID(ta.TagID)
			}
			fmt.Fprintf(out, " %s", name)
		}
		fmt.Fprintln(out)
	}

	entries := obj.AllEntries()
	if len(entries) > 0 {
		rows := make([][]string, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, []string{
				string(entry.Type()),
				shortID(entry.EntryID()),
				formatDate(entry.StoredAt()),
				strconv.Itoa(len(entry.Texts())),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Entry", "ID", "Stored", "Nodes"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
		))
	}

	if obj.Text != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, obj.Text)
	}
	return nil
}

func printEntry(cmd *cobra.Command, obj *media.Object, entryType media.EntryType, sel string, opts export.RenderOptions) error {
	out := cmd.OutOrStdout()
	switch entryType {
	case media.EntryTranscripts:
		transcript, err := obj.ResolveTranscript(sel)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, export.FormatTranscript(transcript, opts))
	case media.EntrySpeechData:
		sd, err := obj.ResolveSpeechData(sel)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, export.FormatSpeechData(sd))
	case media.EntryProcessedText:
		pt, err := obj.ResolveProcessedText(sel)
		if err != nil {
			return err
		}
		if pt.Label != "" {
			fmt.Fprintf(out, "## %s\n", pt.Label)
		}
		fmt.Fprintln(out, pt.Text)
	default:
		return fmt.Errorf("unknown entry type %q", entryType)
	}
	return nil
}

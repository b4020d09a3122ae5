package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"catalog/internal/library"
	"catalog/internal/media"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:       "ls [objects|tags|groups]",
		Short:     "List library contents",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"objects", "tags", "groups"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := "objects"
			if len(args) == 1 {
				target = args[0]
			}
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				switch target {
				case "objects":
					return false, listObjects(cmd, lib, sortBy)
				case "tags":
					return false, listTags(cmd, lib)
				case "groups":
					return false, listGroups(cmd, lib)
				default:
					return false, fmt.Errorf("unknown listing %q", target)
				}
			})
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "stored", "Object sort order: stored, recorded, or name")
	return cmd
}

func listObjects(cmd *cobra.Command, lib *library.Library, sortBy string) error {
	objects := append([]*media.Object(nil), lib.Objects()...)
	switch sortBy {
	case "stored":
		sort.SliceStable(objects, func(i, j int) bool {
			return objects[i].Metadata.DateStored.Before(objects[j].Metadata.DateStored)
		})
	case "recorded":
		sort.SliceStable(objects, func(i, j int) bool {
			return objects[i].Metadata.DateRecorded.Before(objects[j].Metadata.DateRecorded)
		})
	case "name":
		sort.SliceStable(objects, func(i, j int) bool {
			return objects[i].DisplayName() < objects[j].DisplayName()
		})
	default:
		return fmt.Errorf("unknown sort order %q", sortBy)
	}

	memberships := groupMemberships(lib)

	rows := make([][]string, 0, len(objects))
	for _, obj := range objects {
		rows = append(rows, []string{
			obj.ShortID(),
			obj.DisplayName(),
			string(obj.Kind),
			formatDate(obj.Metadata.DateRecorded),
			formatDate(obj.Metadata.DateStored),
			strconv.Itoa(len(obj.Transcripts)),
			strconv.Itoa(len(obj.SpeechData)),
			strconv.Itoa(len(obj.ProcessedText)),
			strconv.Itoa(len(obj.Metadata.Tags)),
			strconv.Itoa(memberships[obj.ID]),
		})
	}
	headers := []string{"ID", "Name", "Kind", "Recorded", "Stored", "Transcripts", "Speech", "Processed", "Tags", "Groups"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
	return nil
}

func listTags(cmd *cobra.Command, lib *library.Library) error {
	rows := make([][]string, 0, len(lib.Tags()))
	for _, tag := range lib.Tags() {
		qualified, err := lib.TagName(tag.ID, true)
		if err != nil {
			return err
		}
		count, err := lib.CountTagAssignments(tag.ID)
		if err != nil {
			return err
		}
		rows = append(rows, []string{shortID(tag.ID), qualified, strconv.Itoa(len(tag.Parents)), strconv.Itoa(count)})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][1] < rows[j][1] })
	headers := []string{"ID", "Name", "Parents", "Assignments"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignRight}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
	return nil
}

func listGroups(cmd *cobra.Command, lib *library.Library) error {
	rows := make([][]string, 0, len(lib.Groups()))
	for _, group := range lib.Groups() {
		rows = append(rows, []string{
			shortID(group.ID),
			group.Name,
			formatDate(group.DateCreated),
			strconv.Itoa(len(group.Objects)),
			strconv.Itoa(len(group.Subgroups)),
		})
	}
	headers := []string{"ID", "Name", "Created", "Objects", "Subgroups"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
	return nil
}

// groupMemberships counts, per object ID, how many groups contain it.
func groupMemberships(lib *library.Library) map[string]int {
	counts := make(map[string]int)
	for _, group := range lib.Groups() {
		for _, obj := range group.Objects {
			counts[obj.ID]++
		}
	}
	return counts
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

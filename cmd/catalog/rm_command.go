package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"catalog/internal/library"
	"catalog/internal/locator"
	"catalog/internal/media"
)

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	var deleteFile bool

	cmd := &cobra.Command{
		Use:   "rm <locator>...",
		Short: "Remove objects or entries from the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				out := cmd.OutOrStdout()
				mutated := false
				for _, arg := range args {
					loc, err := locator.Parse(arg)
					if err != nil {
						return mutated, err
					}
					obj, err := lib.FetchObject(loc.MediaID)
					if err != nil {
						return mutated, err
					}

					if loc.EntryType != "" {
						entryType, err := media.ParseEntryType(loc.EntryType)
						if err != nil {
							return mutated, err
						}
						sel := loc.EntryID
						if sel == "" {
							sel = "-1"
						}
						entryID, err := resolveEntryID(obj, entryType, sel)
						if err != nil {
							return mutated, err
						}
						if err := obj.RemoveEntry(entryType, entryID); err != nil {
							return mutated, err
						}
						mutated = true
						fmt.Fprintf(out, "Removed %s %s from %s\n", entryType, shortID(entryID), obj.ShortID())
						continue
					}

					if err := lib.Remove(obj, deleteFile); err != nil {
						return mutated, err
					}
					mutated = true
					fmt.Fprintf(out, "Removed %s (%s)\n", obj.ShortID(), obj.DisplayName())
				}
				return mutated, nil
			})
		},
	}

	cmd.Flags().BoolVar(&deleteFile, "delete-file", false, "Also delete the datastore file backing the object")
	return cmd
}

// resolveEntryID resolves any entry collection, including processed text,
// which is removable but not taggable.
func resolveEntryID(obj *media.Object, entryType media.EntryType, sel string) (string, error) {
	if entryType == media.EntryProcessedText {
		pt, err := obj.ResolveProcessedText(sel)
		if err != nil {
			return "", err
		}
		return pt.ID, nil
	}
	entry, err := obj.ResolveEntry(entryType, sel)
	if err != nil {
		return "", err
	}
	return entry.EntryID(), nil
}

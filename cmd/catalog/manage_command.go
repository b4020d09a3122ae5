package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"catalog/internal/library"
)

func newManageCommand(ctx *commandContext) *cobra.Command {
	manageCmd := &cobra.Command{
		Use:   "manage",
		Short: "Rename records and edit their descriptions",
	}

	manageCmd.AddCommand(newManageRenameCommand(ctx))
	manageCmd.AddCommand(newManageDescribeCommand(ctx))

	return manageCmd
}

func newManageRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "rename (object|tag|group) <ref> <new-name>",
		Short:     "Rename an object, tag, or group",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"object", "tag", "group"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ref, name := args[0], args[1], args[2]
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				out := cmd.OutOrStdout()
				switch kind {
				case "object":
					obj, err := lib.FetchObject(ref)
					if err != nil {
						return false, err
					}
					obj.Metadata.Name = name
					obj.Metadata.DateModified = time.Now().UTC()
					fmt.Fprintf(out, "Renamed %s to %s\n", obj.ShortID(), name)
				case "tag":
					tag, err := lib.ResolveTag(ref)
					if err != nil {
						return false, err
					}
					old := tag.Name
					if err := lib.RenameTag(tag.ID, name); err != nil {
						return false, err
					}
					fmt.Fprintf(out, "Renamed tag %s to %s\n", old, name)
				case "group":
					group, err := lib.FetchGroup(ref)
					if err != nil {
						return false, err
					}
					old := group.Name
					group.Name = name
					fmt.Fprintf(out, "Renamed group %s to %s\n", old, name)
				default:
					return false, fmt.Errorf("unknown record kind %q", kind)
				}
				return true, nil
			})
		},
	}
}

func newManageDescribeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:       "describe (object|tag|group) <ref> <description>",
		Short:     "Set the description of an object, tag, or group",
		Args:      cobra.ExactArgs(3),
		ValidArgs: []string{"object", "tag", "group"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ref, description := args[0], args[1], args[2]
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				switch kind {
				case "object":
					obj, err := lib.FetchObject(ref)
					if err != nil {
						return false, err
					}
					obj.Description = description
					obj.Metadata.DateModified = time.Now().UTC()
				case "tag":
					tag, err := lib.ResolveTag(ref)
					if err != nil {
						return false, err
					}
					tag.Description = description
				case "group":
					group, err := lib.FetchGroup(ref)
					if err != nil {
						return false, err
					}
					group.Description = description
				default:
					return false, fmt.Errorf("unknown record kind %q", kind)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Description updated")
				return true, nil
			})
		},
	}
}

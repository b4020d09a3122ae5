package main

import (
	"fmt"
	"os/user"

	"github.com/spf13/cobra"

	"catalog/internal/library"
)

func newGroupCommand(ctx *commandContext) *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Create and maintain object groups",
	}

	groupCmd.AddCommand(newGroupCreateCommand(ctx))
	groupCmd.AddCommand(newGroupAddCommand(ctx))
	groupCmd.AddCommand(newGroupRemoveCommand(ctx))
	groupCmd.AddCommand(newGroupNestCommand(ctx))
	groupCmd.AddCommand(newGroupDetachCommand(ctx))
	groupCmd.AddCommand(newGroupDeleteCommand(ctx))
	groupCmd.AddCommand(newGroupShowCommand(ctx))

	return groupCmd
}

func newGroupCreateCommand(ctx *commandContext) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				group, err := lib.CreateGroup(args[0], currentUser(), description)
				if err != nil {
					return false, err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created group %s (%s)\n", group.Name, shortID(group.ID))
				return true, nil
			})
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Group description")
	return cmd
}

func newGroupAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <group> <media-id>...",
		Short: "Add objects to a group",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				group, err := lib.FetchGroup(args[0])
				if err != nil {
					return false, err
				}
				objects, err := fetchObjects(lib, args[1:])
				if err != nil {
					return false, err
				}
				added := lib.AddObjectsToGroup(group, objects)
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d object(s) to %s\n", added, group.Name)
				return added > 0, nil
			})
		},
	}
}

func newGroupRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <group> <media-id>...",
		Short: "Remove objects from a group",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				group, err := lib.FetchGroup(args[0])
				if err != nil {
					return false, err
				}
				objects, err := fetchObjects(lib, args[1:])
				if err != nil {
					return false, err
				}
				removed := lib.RemoveObjectsFromGroup(group, objects)
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d object(s) from %s\n", removed, group.Name)
				return removed > 0, nil
			})
		},
	}
}

func newGroupNestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "nest <parent> <subgroup>...",
		Short: "Nest groups under a parent group",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				parent, err := lib.FetchGroup(args[0])
				if err != nil {
					return false, err
				}
				subs := make([]*library.Group, 0, len(args)-1)
				for _, ref := range args[1:] {
					sub, err := lib.FetchGroup(ref)
					if err != nil {
						return false, err
					}
					subs = append(subs, sub)
				}
				if err := lib.AddSubgroups(parent, subs...); err != nil {
					return false, err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Nested %d group(s) under %s\n", len(subs), parent.Name)
				return true, nil
			})
		},
	}
}

func newGroupDetachCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "detach <parent> <subgroup>",
		Short: "Detach a subgroup from its parent without deleting it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				parent, err := lib.FetchGroup(args[0])
				if err != nil {
					return false, err
				}
				sub, err := lib.FetchGroup(args[1])
				if err != nil {
					return false, err
				}
				if err := lib.RemoveSubgroup(parent, sub); err != nil {
					return false, err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Detached %s from %s\n", sub.Name, parent.Name)
				return true, nil
			})
		},
	}
}

func newGroupDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <group>",
		Short: "Delete a group (members are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				group, err := lib.FetchGroup(args[0])
				if err != nil {
					return false, err
				}
				if err := lib.DeleteGroup(group); err != nil {
					return false, err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted group %s\n", group.Name)
				return true, nil
			})
		},
	}
}

func newGroupShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <group>",
		Short: "Show a group's members and subgroups",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				group, err := lib.FetchGroup(args[0])
				if err != nil {
					return false, err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Group:   %s (%s)\n", group.Name, shortID(group.ID))
				fmt.Fprintf(out, "Created: %s by %s\n", formatDate(group.DateCreated), group.CreatedBy)
				if group.Description != "" {
					fmt.Fprintf(out, "About:   %s\n", group.Description)
				}
				if len(group.Objects) > 0 {
					rows := make([][]string, 0, len(group.Objects))
					for _, obj := range group.Objects {
						rows = append(rows, []string{
							obj.ShortID(),
							obj.DisplayName(),
							string(obj.Kind),
							formatDate(obj.Metadata.DateRecorded),
						})
					}
					fmt.Fprintln(out, renderTable(
						[]string{"ID", "Name", "Kind", "Recorded"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
					))
				}
				for _, sub := range group.Subgroups {
					fmt.Fprintf(out, "Subgroup: %s (%s, %d objects)\n", sub.Name, shortID(sub.ID), len(sub.Objects))
				}
				return false, nil
			})
		},
	}
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "unknown"
}

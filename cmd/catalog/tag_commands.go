package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"catalog/internal/library"
	"catalog/internal/locator"
	"catalog/internal/media"
)

// assignmentSource marks tag assignments made interactively.
const assignmentSource = "cli"

func newTagCommand(ctx *commandContext) *cobra.Command {
	tagCmd := &cobra.Command{
		Use:   "tag",
		Short: "Create, organize, and assign tags",
	}

	tagCmd.AddCommand(newTagCreateCommand(ctx))
	tagCmd.AddCommand(newTagEnsureCommand(ctx))
	tagCmd.AddCommand(newTagDeleteCommand(ctx))
	tagCmd.AddCommand(newTagParentCommand(ctx))
	tagCmd.AddCommand(newTagAddCommand(ctx))
	tagCmd.AddCommand(newTagRemoveCommand(ctx))

	return tagCmd
}

func newTagCreateCommand(ctx *commandContext) *cobra.Command {
	var parent string
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				tag, err := lib.CreateTag(args[0], parent, description)
				if err != nil {
					return false, err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created tag %s (%s)\n", tag.Name, shortID(tag.ID))
				return true, nil
			})
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent tag (ID, prefix, or name)")
	cmd.Flags().StringVar(&description, "description", "", "Tag description")
	return cmd
}

func newTagEnsureCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure <path>",
		Short: "Create a slash-separated tag path, reusing existing tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				leaf, err := lib.EnsureTagPath(args[0], assignmentSource)
				if err != nil {
					return false, err
				}
				qualified, err := lib.TagName(leaf.ID, true)
				if err != nil {
					return true, err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Tag path %s ready (leaf %s)\n", qualified, shortID(leaf.ID))
				return true, nil
			})
		},
	}
}

func newTagDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <tag>",
		Short: "Delete a tag and every assignment of it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				tag, err := lib.ResolveTag(args[0])
				if err != nil {
					return false, err
				}
				count, err := lib.DeleteTag(tag.ID)
				if err != nil {
					return false, err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %s and %d assignment(s)\n", tag.Name, count)
				return true, nil
			})
		},
	}
}

func newTagParentCommand(ctx *commandContext) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "parent <tag> <parent>",
		Short: "Add or remove a parent of a tag",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				tag, err := lib.ResolveTag(args[0])
				if err != nil {
					return false, err
				}
				if remove {
					if err := lib.RemoveParentTag(tag.ID, args[1]); err != nil {
						return false, err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed parent %s from %s\n", args[1], tag.Name)
					return true, nil
				}
				if err := lib.AddParentTag(tag.ID, args[1]); err != nil {
					return false, err
				}
				qualified, err := lib.TagName(tag.ID, true)
				if err != nil {
					return true, err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n", qualified)
				return true, nil
			})
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the parent instead of adding it")
	return cmd
}

func newTagAddCommand(ctx *commandContext) *cobra.Command {
	var groupFlag bool

	cmd := &cobra.Command{
		Use:   "add <tag> <target>...",
		Short: "Assign a tag to objects, entries, or groups",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				tag, err := lib.ResolveTag(args[0])
				if err != nil {
					return false, err
				}
				out := cmd.OutOrStdout()
				mutated := false
				for _, target := range args[1:] {
					if groupFlag {
						group, err := lib.FetchGroup(target)
						if err != nil {
							return mutated, err
						}
						if err := lib.TagGroup(group, tag.ID, assignmentSource); err != nil {
							fmt.Fprintf(cmd.ErrOrStderr(), "group %s: %v\n", group.Name, err)
							continue
						}
						mutated = true
						fmt.Fprintf(out, "Tagged group %s with %s\n", group.Name, tag.Name)
						continue
					}
					subject, err := tagTarget(lib, target)
					if err != nil {
						return mutated, err
					}
					if err := subject.apply(lib, tag.ID); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", target, err)
						continue
					}
					mutated = true
					fmt.Fprintf(out, "Tagged %s with %s\n", subject.describe(), tag.Name)
				}
				return mutated, nil
			})
		},
	}

	cmd.Flags().BoolVar(&groupFlag, "group", false, "Targets are group names or IDs")
	return cmd
}

func newTagRemoveCommand(ctx *commandContext) *cobra.Command {
	var groupFlag bool

	cmd := &cobra.Command{
		Use:   "remove <tag> <target>...",
		Short: "Remove a tag from objects, entries, or groups",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				tag, err := lib.ResolveTag(args[0])
				if err != nil {
					return false, err
				}
				out := cmd.OutOrStdout()
				mutated := false
				for _, target := range args[1:] {
					if groupFlag {
						group, err := lib.FetchGroup(target)
						if err != nil {
							return mutated, err
						}
						if err := lib.UntagGroup(group, tag.ID); err != nil {
							fmt.Fprintf(cmd.ErrOrStderr(), "group %s: %v\n", group.Name, err)
							continue
						}
						mutated = true
						fmt.Fprintf(out, "Untagged group %s\n", group.Name)
						continue
					}
					subject, err := tagTarget(lib, target)
					if err != nil {
						return mutated, err
					}
					if err := subject.unapply(lib, tag.ID); err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", target, err)
						continue
					}
					mutated = true
					fmt.Fprintf(out, "Untagged %s\n", subject.describe())
				}
				return mutated, nil
			})
		},
	}

	cmd.Flags().BoolVar(&groupFlag, "group", false, "Targets are group names or IDs")
	return cmd
}

// tagSubject is an object or one of its entries, resolved from a locator.
type tagSubject struct {
	obj   *media.Object
	entry media.Entry
}

func tagTarget(lib *library.Library, raw string) (*tagSubject, error) {
	loc, err := locator.Parse(raw)
	if err != nil {
		return nil, err
	}
	obj, err := lib.FetchObject(loc.MediaID)
	if err != nil {
		return nil, err
	}
	if loc.EntryType == "" {
		return &tagSubject{obj: obj}, nil
	}
	entryType, err := media.ParseEntryType(loc.EntryType)
	if err != nil {
		return nil, err
	}
	sel := loc.EntryID
	if sel == "" {
		sel = "-1"
	}
	entry, err := obj.ResolveEntry(entryType, sel)
	if err != nil {
		return nil, err
	}
	return &tagSubject{obj: obj, entry: entry}, nil
}

func (s *tagSubject) apply(lib *library.Library, tagID string) error {
	if s.entry != nil {
		return lib.TagEntry(s.entry, tagID, assignmentSource)
	}
	return lib.TagObject(s.obj, tagID, assignmentSource)
}

func (s *tagSubject) unapply(lib *library.Library, tagID string) error {
	if s.entry != nil {
		return lib.UntagEntry(s.entry, tagID)
	}
	return lib.UntagObject(s.obj, tagID)
}

func (s *tagSubject) describe() string {
	if s.entry != nil {
		return fmt.Sprintf("%s:%s:%s", s.obj.ShortID(), s.entry.Type(), shortID(s.entry.EntryID()))
	}
	return s.obj.ShortID()
}

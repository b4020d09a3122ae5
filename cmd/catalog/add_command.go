package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"catalog/internal/library"
	"catalog/internal/media"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var kindFlag string
	var nameFlag string
	var urlFlag string
	var noCopy bool

	cmd := &cobra.Command{
		Use:   "add <path>...",
		Short: "Import media files into the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := library.ImportOptions{
				Auto:            true,
				Name:            nameFlag,
				URL:             urlFlag,
				CopyToDatastore: !noCopy,
			}
			if kindFlag != "" {
				kind, err := media.ParseKind(kindFlag)
				if err != nil {
					return err
				}
				opts.Kind = kind
				opts.Auto = false
			}
			if nameFlag != "" && len(args) > 1 {
				return fmt.Errorf("--name applies to a single file, got %d", len(args))
			}

			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				out := cmd.OutOrStdout()
				failed := 0
				for _, arg := range args {
					if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
						if opts.Auto {
							return false, fmt.Errorf("%s: remote sources need an explicit --kind", arg)
						}
						obj, imported, err := lib.ImportURL(arg, opts.Kind, nameFlag)
						if err != nil {
							failed++
							fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", arg, err)
							continue
						}
						if imported {
							fmt.Fprintf(out, "Registered %s as %s (%s)\n", arg, obj.ShortID(), obj.Kind)
						} else {
							fmt.Fprintf(out, "%s already in library as %s\n", arg, obj.ShortID())
						}
						continue
					}
					source, err := filepath.Abs(arg)
					if err != nil {
						return false, fmt.Errorf("resolve path: %w", err)
					}
					obj, imported, err := lib.Import(source, opts)
					if err != nil {
						failed++
						fmt.Fprintf(cmd.ErrOrStderr(), "skipping %s: %v\n", arg, err)
						continue
					}
					if imported {
						fmt.Fprintf(out, "Imported %s as %s (%s)\n", filepath.Base(source), obj.ShortID(), obj.Kind)
					} else {
						fmt.Fprintf(out, "%s already in library as %s\n", filepath.Base(source), obj.ShortID())
					}
				}
				if failed == len(args) {
					return false, fmt.Errorf("no files imported")
				}
				// Import saves per file; nothing further to persist.
				return false, nil
			})
		},
	}

	cmd.Flags().StringVar(&kindFlag, "kind", "", "Media kind (Voice, Audio, Video, Image, Screenshot, Chat); inferred when omitted")
	cmd.Flags().StringVar(&nameFlag, "name", "", "Display name for the imported object")
	cmd.Flags().StringVar(&urlFlag, "url", "", "Source URL to record on the object")
	cmd.Flags().BoolVar(&noCopy, "no-copy", false, "Reference the file in place instead of copying it into the datastore")
	return cmd
}

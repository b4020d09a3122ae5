package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"catalog/internal/export"
	"catalog/internal/library"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write markdown pointer files for every object, group, and tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := dir
			if target == "" {
				target = cfg.Paths.PointerDir
			}
			if target == "" {
				return fmt.Errorf("no pointer directory; set [paths] pointer_dir or pass --dir")
			}

			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				written, err := export.Sync(lib, target)
				if err != nil {
					return false, err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d pointer file(s) to %s\n", written, target)
				return false, nil
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Destination directory (defaults to the configured pointer_dir)")
	return cmd
}

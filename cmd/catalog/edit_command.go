package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"catalog/internal/library"
)

func newEditCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <locator> [text]",
		Short: "Replace the text of a single node",
		Long: `Replace the content of one transcript or speech-data node. The locator
must address exactly one node, e.g. a1b2c3d4:speech_data:e5f6a.nodes:3.
When no text argument is given, the replacement is read from stdin.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var text string
			if len(args) == 2 {
				text = args[1]
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read replacement text: %w", err)
				}
				text = strings.TrimRight(string(data), "\n")
			}

			return ctx.withLibrary(func(lib *library.Library) (bool, error) {
				if err := lib.UpdateNode(args[0], text); err != nil {
					return false, err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Node updated")
				return true, nil
			})
		},
	}
}

package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"cmforge/internal/prompt"
)

func newSelectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select-current-build",
		Short: "Interactively select the current build target",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.store()
			if err != nil {
				return err
			}
			doc, err := store.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Current build target: %s\n", doc.CurrentBuildTarget)

			rows := make([][]string, 0, len(doc.BuildTargets))
			for i, name := range doc.BuildTargets {
				marker := ""
				if name == doc.CurrentBuildTarget {
					marker = "*"
				}
				rows = append(rows, []string{fmt.Sprintf("%d", i), name, marker})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Index", "Target", "Current"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft},
			))

			if stdinIsTerminal() {
				fmt.Fprint(out, "Enter the index of the build target to select: ")
			}
			index, err := prompt.ReadIndex(prompt.Stdin(cmd.InOrStdin()))
			if err != nil {
				return err
			}

			d, done, err := ctx.dispatcher()
			if err != nil {
				return err
			}
			defer done()
			updated, err := d.Select(index)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Selected build target: %s\n", updated.CurrentBuildTarget)
			return nil
		},
	}
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cmforge/internal/prompt"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the target document for this workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.store()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			reader := prompt.Stdin(cmd.InOrStdin())
			confirm := func() (bool, error) {
				fmt.Fprintf(out, "A target document already exists at %s. Overwrite it? [y/N] ", store.Path())
				return prompt.Confirm(reader)
			}

			written, err := store.Initialize(ctx.workspace, confirm)
			if err != nil {
				return err
			}
			if !written {
				fmt.Fprintf(out, "Keeping existing document at %s\n", store.Path())
				return nil
			}
			fmt.Fprintf(out, "Created target document at %s\n", store.Path())
			fmt.Fprintln(out, "Edit the file to describe your configure, build, and run targets.")
			return nil
		},
	}
}

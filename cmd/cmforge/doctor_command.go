package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cmforge/internal/deps"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that every command in the target document is available",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.store()
			if err != nil {
				return err
			}
			doc, err := store.Load()
			if err != nil {
				return err
			}

			statuses := deps.Check(doc.Workspace, deps.FromDocument(doc))
			out := cmd.OutOrStdout()
			if len(statuses) == 0 {
				fmt.Fprintln(out, "No commands configured")
				return nil
			}

			missing := 0
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				available := yesNo(status.Available)
				if !status.Available {
					missing++
				}
				rows = append(rows, []string{status.Command, available, status.Detail})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Command", "Available", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if missing > 0 {
				return fmt.Errorf("%d of %d configured commands are unavailable", missing, len(statuses))
			}
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

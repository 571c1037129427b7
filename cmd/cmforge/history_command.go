package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent configure, build, and run invocations",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, done, err := ctx.historyStore()
			if err != nil {
				return err
			}
			defer done()
			if store == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "History is disabled in settings")
				return nil
			}

			if limit <= 0 {
				limit = ctx.settings.History.Limit
			}
			invocations, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(invocations) == 0 {
				fmt.Fprintln(out, "No invocations recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(invocations))
			for _, inv := range invocations {
				status := "ok"
				if !inv.Success {
					status = fmt.Sprintf("exit %d", inv.ExitStatus)
				}
				line := inv.Command
				if len(inv.Args) > 0 {
					line += " " + strings.Join(inv.Args, " ")
				}
				rows = append(rows, []string{
					inv.StartedAt.Local().Format("2006-01-02 15:04:05"),
					inv.Operation,
					inv.Target,
					status,
					inv.Duration.Round(10 * time.Millisecond).String(),
					line,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Operation", "Target", "Status", "Duration", "Command"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum number of rows to show")
	return cmd
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newTargetsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "Show the catalogs and the current selection",
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
			fmt.Fprintf(out, "Workspace: %s\n", doc.Workspace)
			fmt.Fprintf(out, "Current build target: %s\n", doc.CurrentBuildTarget)
			if !contains(doc.BuildTargets, doc.CurrentBuildTarget) {
				fmt.Fprintf(out, "Note: %q is not listed in build_targets\n", doc.CurrentBuildTarget)
			}

			var rows [][]string
			for _, entry := range doc.Configurations {
				rows = append(rows, catalogRow("configure", entry.Name, entry.Command, entry.Args, doc.CurrentBuildTarget, ""))
			}
			for _, entry := range doc.Builds {
				rows = append(rows, catalogRow("build", entry.Name, entry.Command, entry.Args, doc.CurrentBuildTarget, ""))
			}
			for _, entry := range doc.Runs {
				note := ""
				if entry.PreBuild {
					note = "pre-build"
				}
				rows = append(rows, catalogRow("run", entry.Name, entry.Command, entry.Args, doc.CurrentBuildTarget, note))
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Catalog", "Name", "Command", "Current", "Notes"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func catalogRow(catalog, name, command string, args []string, current, note string) []string {
	marker := ""
	if name == current {
		marker = "*"
	}
	line := command
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	return []string{catalog, name, line, marker, note}
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

package main

import (
	"github.com/spf13/cobra"
)

func newConfigureCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Run the configure command for the current target",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, done, err := ctx.dispatcher()
			if err != nil {
				return err
			}
			defer done()
			return d.Configure(cmd.Context())
		},
	}
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the current target",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, done, err := ctx.dispatcher()
			if err != nil {
				return err
			}
			defer done()
			return d.Build(cmd.Context())
		},
	}
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the current target, building first when pre_build is set",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, done, err := ctx.dispatcher()
			if err != nil {
				return err
			}
			defer done()
			return d.Run(cmd.Context())
		},
	}
}

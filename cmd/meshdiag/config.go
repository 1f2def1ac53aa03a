package main

import (
	"github.com/spf13/cobra"

	"github.com/tturner/meshdiag/internal/app"
)

func newConfigCmd(globals *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the meshdiag configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newConfigInitCmd(globals))
	return cmd
}

func newConfigInitCmd(globals *globalFlags) *cobra.Command {
	var output string
	var force bool

	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Write a default configuration file",
		Example: `  meshdiag config init --output meshdiag.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if output == "" {
				return missingFlagError(cmd, "--output")
			}
			return app.RunConfigInit(app.ConfigInitOptions{
				Common:     globals.common(cmd),
				OutputPath: output,
				Force:      force,
			})
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "Path of the configuration file to write (required)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}

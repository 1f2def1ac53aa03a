package main

import (
	"github.com/spf13/cobra"

	"github.com/tturner/meshdiag/internal/app"
)

func newLayoutsCmd(globals *globalFlags) *cobra.Command {
	var versionFlag, format string

	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "List the registered payload layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			return app.RunLayouts(app.LayoutsOptions{
				Common:  globals.common(cmd),
				Version: versionFlag,
				Format:  format,
			})
		},
	}

	cmd.Flags().StringVar(&versionFlag, "version", "", "Only show the layout used for this version")
	cmd.Flags().StringVar(&format, "format", "", "Output format: text or json")

	return cmd
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tturner/meshdiag/internal/app"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type globalFlags struct {
	configPath string
	logLevel   string
	logFile    string
}

func (g *globalFlags) common(cmd *cobra.Command) app.CommonOptions {
	return app.CommonOptions{
		ConfigPath: g.configPath,
		LogLevel:   g.logLevel,
		LogFile:    g.logFile,
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	}
}

func newRootCmd() *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "meshdiag",
		Short: "Mesh node diagnostics APDU decoder",
		Long: `meshdiag decodes the versioned binary diagnostics reports sent by
wireless mesh nodes into named fields, from hex input or from UDP captures.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "Configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&globals.logLevel, "log-level", "", "Log level: silent, error, info, verbose, debug")
	rootCmd.PersistentFlags().StringVar(&globals.logFile, "log-file", "", "Also write logs to this file")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newDecodeCmd(globals))
	rootCmd.AddCommand(newPcapCmd(globals))
	rootCmd.AddCommand(newEmitCmd(globals))
	rootCmd.AddCommand(newLayoutsCmd(globals))
	rootCmd.AddCommand(newConfigCmd(globals))

	// Custom help command
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			if cmd.Long != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", cmd.Long)
			}
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Usage:\n  %s <command> [arguments] [options]\n\n", cmd.Name())
		fmt.Fprintf(out, "Available Commands:\n")
		for _, subCmd := range cmd.Commands() {
			if !subCmd.Hidden && subCmd.Name() != "completion" && subCmd.Name() != "help" {
				fmt.Fprintf(out, "  %-15s %s\n", subCmd.Name(), subCmd.Short)
			}
		}
		fmt.Fprintf(out, "\nUse \"%s help <command>\" for more information about a command.\n", cmd.Name())
	})

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

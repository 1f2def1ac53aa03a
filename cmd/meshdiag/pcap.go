package main

import (
	"github.com/spf13/cobra"

	"github.com/tturner/meshdiag/internal/app"
)

type pcapFlags struct {
	inputFile     string
	version       string
	ports         []int
	maxPackets    int
	allowTrailing bool
	format        string
	csvPath       string
	reportPath    string
	failOnError   bool
	progress      bool
}

func newPcapCmd(globals *globalFlags) *cobra.Command {
	flags := &pcapFlags{}

	cmd := &cobra.Command{
		Use:   "pcap",
		Short: "Decode every diagnostics payload in a capture",
		Long: `Read a pcap or pcapng capture, extract the UDP payloads on the
diagnostics ports and decode each one. A summary with per-field statistics
follows the decoded records.`,
		Example: `  # Decode a gateway capture and keep a CSV of all records
  meshdiag pcap --input gateway.pcap --version 4.0 --csv records.csv

  # JSON report for a capture on a non-default port
  meshdiag pcap --input site.pcapng --port 7601 --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if flags.inputFile == "" && len(args) > 0 {
				flags.inputFile = args[0]
			}
			if flags.inputFile == "" {
				return missingFlagError(cmd, "--input")
			}
			return app.RunPcap(app.PcapOptions{
				Common:        globals.common(cmd),
				InputFile:     flags.inputFile,
				Version:       flags.version,
				Ports:         flags.ports,
				MaxPackets:    flags.maxPackets,
				AllowTrailing: flags.allowTrailing,
				Format:        flags.format,
				CSVPath:       flags.csvPath,
				ReportPath:    flags.reportPath,
				AppVersion:    version,
				FailOnError:   flags.failOnError,
				Progress:      flags.progress,
			})
		},
	}

	cmd.Flags().StringVar(&flags.inputFile, "input", "", "Input capture file (required)")
	cmd.Flags().StringVar(&flags.version, "version", "", "Protocol version of the captured nodes (default from config)")
	cmd.Flags().IntSliceVar(&flags.ports, "port", nil, "UDP port(s) carrying diagnostics (default from config)")
	cmd.Flags().IntVar(&flags.maxPackets, "max", 0, "Stop after this many payloads (0 = all)")
	cmd.Flags().BoolVar(&flags.allowTrailing, "allow-trailing", false, "Ignore bytes beyond the layout")
	cmd.Flags().StringVar(&flags.format, "format", "", "Output format: text, json or csv (default from config)")
	cmd.Flags().StringVar(&flags.csvPath, "csv", "", "Also write decoded records to this CSV file")
	cmd.Flags().StringVar(&flags.reportPath, "report", "", "Also write a JSON report to this file")
	cmd.Flags().BoolVar(&flags.failOnError, "fail-on-error", false, "Exit non-zero if any payload fails to decode")
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "Show a progress bar on stderr")

	return cmd
}

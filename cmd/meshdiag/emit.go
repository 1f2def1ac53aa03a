package main

import (
	"github.com/spf13/cobra"

	"github.com/tturner/meshdiag/internal/app"
)

type emitFlags struct {
	version  string
	base     string
	set      []string
	pcapPath string
	port     int
	count    int
}

func newEmitCmd(globals *globalFlags) *cobra.Command {
	flags := &emitFlags{}

	cmd := &cobra.Command{
		Use:   "emit",
		Short: "Encode a diagnostics payload from field values",
		Long: `Encode a traffic diagnostics APDU and print it as hex. Unset fields
are zero, or taken from --base. Derived fields cannot be set directly.`,
		Example: `  # 4.0 payload with 2 cluster members and 3 headnode members
  meshdiag emit --version 4.0 --set access_cycles=0x0302 --set rx_amount=16

  # Write ten copies to a capture for replay tests
  meshdiag emit --version 4.0 --set tx_amount=32 --pcap diag.pcap --count 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			return app.RunEmit(app.EmitOptions{
				Common:   globals.common(cmd),
				Version:  flags.version,
				Base:     flags.base,
				Set:      flags.set,
				PcapPath: flags.pcapPath,
				Port:     flags.port,
				Count:    flags.count,
			})
		},
	}

	cmd.Flags().StringVar(&flags.version, "version", "", "Protocol version (default from config)")
	cmd.Flags().StringVar(&flags.base, "base", "", "Hex payload to start from")
	cmd.Flags().StringArrayVar(&flags.set, "set", nil, "Field assignment name=value (repeatable)")
	cmd.Flags().StringVar(&flags.pcapPath, "pcap", "", "Also write the payload to this capture file")
	cmd.Flags().IntVar(&flags.port, "port", 0, "UDP destination port for --pcap (default from config)")
	cmd.Flags().IntVar(&flags.count, "count", 1, "Number of packets to write with --pcap")

	return cmd
}

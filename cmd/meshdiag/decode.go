package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/tturner/meshdiag/internal/app"
)

type decodeFlags struct {
	version       string
	hex           string
	inputFile     string
	allowTrailing bool
	format        string
	dump          bool
	copy          bool
}

func newDecodeCmd(globals *globalFlags) *cobra.Command {
	flags := &decodeFlags{}

	cmd := &cobra.Command{
		Use:   "decode [hex...]",
		Short: "Decode a single diagnostics payload",
		Long: `Decode one traffic diagnostics APDU given as hex.

The protocol version selects the layout: 3.x payloads carry the primitive
fields only, 4.0 and later also split access_cycles into cluster_members
(low byte) and cluster_headnode_members (high byte).`,
		Example: `  # Decode a 4.0 payload
  meshdiag decode --version 4.0 "02 00 05 07 10 00 20 00 FF 80 90 A0 B0 C0 D0 E0 F0 01"

  # Decode hex from a file as JSON and copy the result
  meshdiag decode --version 3.2 --input payload.hex --format json --copy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			if flags.hex == "" && len(args) > 0 {
				flags.hex = strings.Join(args, " ")
			}
			if flags.hex == "" && flags.inputFile == "" {
				return missingFlagError(cmd, "--hex or --input")
			}
			return app.RunDecode(app.DecodeOptions{
				Common:        globals.common(cmd),
				Version:       flags.version,
				Hex:           flags.hex,
				InputFile:     flags.inputFile,
				AllowTrailing: flags.allowTrailing,
				Format:        flags.format,
				Dump:          flags.dump,
				Copy:          flags.copy,
			})
		},
	}

	cmd.Flags().StringVar(&flags.version, "version", "", "Protocol version, e.g. 3.2, 4.0 or 5.1.0.12 (default from config)")
	cmd.Flags().StringVar(&flags.hex, "hex", "", "Payload as hex (spaces allowed)")
	cmd.Flags().StringVar(&flags.inputFile, "input", "", "File containing the payload as hex ('-' for stdin)")
	cmd.Flags().BoolVar(&flags.allowTrailing, "allow-trailing", false, "Ignore bytes beyond the layout")
	cmd.Flags().StringVar(&flags.format, "format", "", "Output format: text, json or csv (default from config)")
	cmd.Flags().BoolVar(&flags.dump, "dump", false, "Print the bytes behind each field")
	cmd.Flags().BoolVar(&flags.copy, "copy", false, "Copy the decoded record as JSON to the clipboard")

	return cmd
}

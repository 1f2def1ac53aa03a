package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/tturner/meshdiag/internal/apdu"
	"github.com/tturner/meshdiag/internal/config"
	"github.com/tturner/meshdiag/internal/errors"
	"github.com/tturner/meshdiag/internal/metrics"
	"github.com/tturner/meshdiag/internal/report"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

type DecodeOptions struct {
	Common        CommonOptions
	Version       string
	Hex           string
	InputFile     string // file holding hex text; "-" reads stdin
	AllowTrailing bool   // ORed with decoder.allow_trailing_bytes
	Format        string
	Dump          bool
	Copy          bool
}

func RunDecode(opts DecodeOptions) error {
	cfg, logger, err := setup(opts.Common)
	if err != nil {
		return err
	}
	defer logger.Close()

	version := firstNonEmpty(opts.Version, cfg.Decoder.DefaultVersion)
	format, err := outputFormat(opts.Format, cfg.Output.Format, config.FormatText, config.FormatJSON, config.FormatCSV)
	if err != nil {
		return err
	}
	source := "hex input"
	logger.LogStartup("decode", version, firstNonEmpty(opts.InputFile, source), opts.Common.ConfigPath)

	text := opts.Hex
	if opts.InputFile != "" {
		source = opts.InputFile
		text, err = readHexInput(opts.InputFile)
		if err != nil {
			return errors.WrapInputError(err, source)
		}
	}
	payload, err := decodeHex(text)
	if err != nil {
		return errors.WrapInputError(err, source)
	}
	logger.LogHex("payload", payload)

	decodeOpts := cfg.DecodeOptions()
	if opts.AllowTrailing {
		decodeOpts = append(decodeOpts, apdu.WithAllowTrailingBytes(true))
	}
	rec, decodeErr := apdu.Decode(apdu.TrafficDiagnosticsTable, version, payload, decodeOpts...)
	fields := 0
	if rec != nil {
		fields = rec.Len()
	}
	logger.LogDecode(source, version, len(payload), fields, decodeErr)

	out := opts.Common.stdout()
	result := report.NewDecodedPayload(source, version, payload, rec, decodeErr)

	if decodeErr != nil {
		if opts.Dump {
			if schema, _, err := apdu.TrafficDiagnosticsTable.ResolveString(version); err == nil {
				fmt.Fprint(out, report.FieldDump(payload, schema.Layout))
			} else {
				fmt.Fprint(out, report.HexDump(payload, 16))
			}
		}
		return errors.WrapDecodeError(decodeErr, version)
	}

	switch format {
	case config.FormatJSON:
		err = report.WriteJSON(out, result)
	case config.FormatCSV:
		err = writeDecodeCSV(out, result, rec)
	default:
		err = report.WriteRecordText(out, result, report.NewTextStyle(cfg.ColorEnabled()))
	}
	if err != nil {
		return err
	}
	if opts.Dump {
		fmt.Fprintln(out)
		fmt.Fprint(out, report.FieldDump(payload, rec.Schema().Layout))
	}

	if opts.Copy {
		data, err := report.MarshalCompact(result)
		if err != nil {
			return err
		}
		if err := copyToClipboard(string(data)); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		logger.Info("Decoded record copied to clipboard")
	}
	return nil
}

func writeDecodeCSV(w io.Writer, p report.DecodedPayload, rec *apdu.Record) error {
	cw, err := metrics.NewWriter(w, rec.Schema())
	if err != nil {
		return err
	}
	if err := cw.WriteRow(metrics.Row{Source: p.Source, Version: p.Version, Size: p.Size, Record: rec}); err != nil {
		return err
	}
	return cw.Close()
}

func readHexInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	// Allow '#' comment lines in hex fixture files.
	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

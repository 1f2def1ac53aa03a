package app

import (
	"fmt"
	"io"

	"github.com/tturner/meshdiag/internal/apdu"
	"github.com/tturner/meshdiag/internal/config"
	"github.com/tturner/meshdiag/internal/errors"
	"github.com/tturner/meshdiag/internal/metrics"
	"github.com/tturner/meshdiag/internal/pcap"
	"github.com/tturner/meshdiag/internal/progress"
	"github.com/tturner/meshdiag/internal/report"
)

type PcapOptions struct {
	Common        CommonOptions
	InputFile     string
	Version       string
	Ports         []int
	MaxPackets    int
	AllowTrailing bool
	Format        string
	CSVPath       string
	ReportPath    string
	AppVersion    string
	FailOnError   bool
	Progress      bool // draw a progress bar on stderr
}

func RunPcap(opts PcapOptions) error {
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
	ports := opts.Ports
	if len(ports) == 0 {
		ports = cfg.Capture.UDPPorts
	}
	for _, port := range ports {
		if err := checkPort(port); err != nil {
			return err
		}
	}
	maxPackets := opts.MaxPackets
	if maxPackets == 0 {
		maxPackets = cfg.Capture.MaxPackets
	}
	logger.LogStartup("pcap", version, opts.InputFile, opts.Common.ConfigPath)
	logger.Verbose("  UDP ports: %v", ports)

	// An unsupported version fails before the capture is read.
	schema, _, err := apdu.TrafficDiagnosticsTable.ResolveString(version)
	if err != nil {
		return errors.WrapDecodeError(err, version)
	}

	payloads, err := pcap.ExtractPayloads(opts.InputFile, pcap.ExtractOptions{Ports: ports, MaxPayload: maxPackets})
	if err != nil {
		return errors.WrapInputError(err, opts.InputFile)
	}
	logger.Info("Extracted %d payloads from %s", len(payloads), opts.InputFile)

	decodeOpts := cfg.DecodeOptions()
	if opts.AllowTrailing {
		decodeOpts = append(decodeOpts, apdu.WithAllowTrailingBytes(true))
	}
	decoder := apdu.NewDecoder(apdu.TrafficDiagnosticsTable, decodeOpts...)
	sink := metrics.NewSink()

	out := opts.Common.stdout()
	var csvWriter *metrics.Writer
	switch {
	case opts.CSVPath != "":
		csvWriter, err = metrics.CreateFileWriter(opts.CSVPath, schema)
	case format == config.FormatCSV:
		csvWriter, err = metrics.NewWriter(out, schema)
	}
	if err != nil {
		return err
	}

	var barOut io.Writer
	if opts.Progress {
		barOut = opts.Common.stderr()
	}
	bar := progress.New(barOut, len(payloads), "decoding")

	style := report.NewTextStyle(cfg.ColorEnabled())
	results := make([]report.DecodedPayload, 0, len(payloads))
	for _, p := range payloads {
		logger.LogHex(p.Source(), p.Data)
		rec, decodeErr := decoder.Decode(version, p.Data)
		fields := 0
		if rec != nil {
			fields = rec.Len()
		}
		logger.LogDecode(p.Source(), version, len(p.Data), fields, decodeErr)
		sink.Record(rec, decodeErr)
		bar.Add(decodeErr == nil)

		result := report.NewDecodedPayload(p.Source(), version, p.Data, rec, decodeErr)
		result.Timestamp = report.FormatTime(p.Timestamp)
		results = append(results, result)

		if csvWriter != nil {
			row := metrics.Row{Timestamp: p.Timestamp, Source: p.Source(), Version: version, Size: len(p.Data), Record: rec, Err: decodeErr}
			if err := csvWriter.WriteRow(row); err != nil {
				csvWriter.Close()
				return err
			}
		}
		if format == config.FormatText {
			if err := report.WriteRecordText(out, result, style); err != nil {
				return err
			}
		}
	}
	bar.Finish()
	if csvWriter != nil {
		if err := csvWriter.Close(); err != nil {
			return err
		}
		if opts.CSVPath != "" {
			logger.Info("Wrote CSV to %s", opts.CSVPath)
		}
	}

	summary := sink.GetSummary()
	doc := report.CaptureReport{
		GeneratedAt:     report.FormatTimestamp(),
		MeshdiagVersion: opts.AppVersion,
		Input:           opts.InputFile,
		Version:         version,
		Summary:         summary,
		Payloads:        results,
	}
	if opts.ReportPath != "" {
		if err := report.WriteJSONFile(opts.ReportPath, doc); err != nil {
			return err
		}
		logger.Info("Wrote report to %s", opts.ReportPath)
	}

	switch format {
	case config.FormatJSON:
		if err := report.WriteJSON(out, doc); err != nil {
			return err
		}
	case config.FormatText:
		fmt.Fprintln(out)
		fmt.Fprint(out, metrics.FormatSummary(summary))
	}

	if opts.FailOnError && summary.Failed > 0 {
		return fmt.Errorf("%d of %d payloads failed to decode", summary.Failed, summary.Total)
	}
	return nil
}

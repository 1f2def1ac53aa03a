package app

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/tturner/meshdiag/internal/config"
	"github.com/tturner/meshdiag/internal/logging"
)

// CommonOptions carries the global flags every command accepts.
type CommonOptions struct {
	ConfigPath string
	LogLevel   string // overrides logging.level when set
	LogFile    string // overrides logging.log_file when set
	Stdout     io.Writer
	Stderr     io.Writer
}

func (o CommonOptions) stdout() io.Writer {
	if o.Stdout != nil {
		return o.Stdout
	}
	return os.Stdout
}

func (o CommonOptions) stderr() io.Writer {
	if o.Stderr != nil {
		return o.Stderr
	}
	return os.Stderr
}

// setup loads the configuration and builds the logger for a command run.
// The caller closes the logger.
func setup(opts CommonOptions) (*config.Config, *logging.Logger, error) {
	cfg, err := config.LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFile != "" {
		cfg.Logging.LogFile = opts.LogFile
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level: %w", err)
	}
	logger, err := logging.NewLoggerWithOptions(level, cfg.Logging.LogFile, cfg.Logging.Format)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	logger.SetOutput(opts.stdout(), opts.stderr())
	return cfg, logger, nil
}

func checkPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid UDP port %d (must be 1-65535)", port)
	}
	return nil
}

// outputFormat picks the flag value over the configured one and rejects
// anything outside allowed.
func outputFormat(flag, configured string, allowed ...string) (string, error) {
	format := firstNonEmpty(flag, configured)
	for _, a := range allowed {
		if format == a {
			return format, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want %s)", format, strings.Join(allowed, ", "))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// decodeHex accepts hex with arbitrary whitespace, ':' '-' '|' '_'
// separators and an optional 0x prefix.
func decodeHex(input string) ([]byte, error) {
	clean := stripSeparators(input)
	if strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X") {
		clean = clean[2:]
	}
	if clean == "" {
		return nil, fmt.Errorf("hex payload is empty")
	}
	if len(clean)%2 != 0 {
		return nil, fmt.Errorf("hex payload must contain an even number of digits, got %d", len(clean))
	}
	decoded := make([]byte, len(clean)/2)
	if _, err := hex.Decode(decoded, []byte(clean)); err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded, nil
}

func stripSeparators(s string) string {
	builder := strings.Builder{}
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == ':' || r == '-' || r == '|' || r == '_' {
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// formatHex renders data as space separated upper-case byte pairs.
func formatHex(data []byte) string {
	var sb strings.Builder
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}

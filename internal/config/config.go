package config

// Configuration loading and validation for meshdiag

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tturner/meshdiag/internal/apdu"
	"github.com/tturner/meshdiag/internal/errors"
	"github.com/tturner/meshdiag/internal/logging"
)

const (
	// DefaultProtocolVersion is used when neither flags nor config name one.
	DefaultProtocolVersion = "4.0"
	// DefaultCapturePort is the UDP port gateways forward diagnostics APDUs to.
	DefaultCapturePort = 7600
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// DecoderConfig controls payload decoding.
type DecoderConfig struct {
	DefaultVersion     string `yaml:"default_version"`
	AllowTrailingBytes bool   `yaml:"allow_trailing_bytes"` // tolerate firmware padding
}

// CaptureConfig controls payload extraction from capture files.
type CaptureConfig struct {
	UDPPorts   []int `yaml:"udp_ports"`
	MaxPackets int   `yaml:"max_packets,omitempty"` // 0 = no limit
}

// LoggingConfig controls log verbosity and destination.
type LoggingConfig struct {
	Level   string `yaml:"level"`            // "silent","error","info","verbose","debug"
	Format  string `yaml:"format,omitempty"` // "text" or "json"
	LogFile string `yaml:"log_file,omitempty"`
}

// OutputConfig controls how decoded records are rendered.
type OutputConfig struct {
	Format string `yaml:"format"` // "text", "json" or "csv"
	Color  *bool  `yaml:"color,omitempty"`
}

// Config represents the meshdiag configuration
type Config struct {
	Decoder DecoderConfig `yaml:"decoder"`
	Capture CaptureConfig `yaml:"capture"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
}

// DecodeOptions returns the apdu options the config selects.
func (c *Config) DecodeOptions() []apdu.Option {
	return []apdu.Option{apdu.WithAllowTrailingBytes(c.Decoder.AllowTrailingBytes)}
}

// ColorEnabled reports whether styled text output is enabled.
func (c *Config) ColorEnabled() bool {
	return c.Output.Color == nil || *c.Output.Color
}

// CreateDefaultConfig creates a default configuration
func CreateDefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Decoder.DefaultVersion == "" {
		cfg.Decoder.DefaultVersion = DefaultProtocolVersion
	}
	if len(cfg.Capture.UDPPorts) == 0 {
		cfg.Capture.UDPPorts = []int{DefaultCapturePort}
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatText
	}
}

// WriteDefaultConfig writes a default configuration to a file
func WriteDefaultConfig(path string) error {
	data, err := yaml.Marshal(CreateDefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// LoadConfig reads, defaults and validates the configuration at path. An
// empty path yields the default configuration.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return CreateDefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapConfigError(fmt.Errorf("config file not found: %s", path), path)
		}
		return nil, errors.WrapConfigError(fmt.Errorf("read config file: %w", err), path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("parse YAML: %w", err), path)
	}

	applyDefaults(&cfg)

	if err := ValidateConfig(&cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("validate config: %w", err), path)
	}

	return &cfg, nil
}

// ValidateConfig validates a configuration
func ValidateConfig(cfg *Config) error {
	if _, _, err := apdu.TrafficDiagnosticsTable.ResolveString(cfg.Decoder.DefaultVersion); err != nil {
		return fmt.Errorf("decoder.default_version: %w", err)
	}

	for i, port := range cfg.Capture.UDPPorts {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("capture.udp_ports[%d]: port %d out of range", i, port)
		}
	}
	if cfg.Capture.MaxPackets < 0 {
		return fmt.Errorf("capture.max_packets must be >= 0")
	}

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if cfg.Logging.Format != "" && cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json'")
	}

	switch cfg.Output.Format {
	case FormatText, FormatJSON, FormatCSV:
	default:
		return fmt.Errorf("output.format must be 'text', 'json' or 'csv'")
	}

	return nil
}

package app

import (
	"fmt"
	"os"

	"github.com/tturner/meshdiag/internal/config"
)

type ConfigInitOptions struct {
	Common     CommonOptions
	OutputPath string
	Force      bool
}

// RunConfigInit writes the default configuration to OutputPath.
func RunConfigInit(opts ConfigInitOptions) error {
	if !opts.Force {
		if _, err := os.Stat(opts.OutputPath); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", opts.OutputPath)
		}
	}
	if err := config.WriteDefaultConfig(opts.OutputPath); err != nil {
		return err
	}
	fmt.Fprintf(opts.Common.stdout(), "Wrote default configuration to %s\n", opts.OutputPath)
	return nil
}

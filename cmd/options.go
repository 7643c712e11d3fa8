package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reliclabs/relic/internal/scan"
	"github.com/reliclabs/relic/pkg/config"
	"github.com/reliclabs/relic/pkg/exitcode"
)

// loadConfigOrExit loads the layered configuration, mapping failures to
// the config exit code.
func loadConfigOrExit() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, &exitError{code: exitcode.ConfigError, message: fmt.Sprintf("loading configuration: %v", err)}
	}
	return cfg, nil
}

// scannerFromFlags builds a scanner from config, letting explicitly set
// flags win over the config file.
func scannerFromFlags(cmd *cobra.Command, cfg *config.Config) *scan.Scanner {
	scanner := scan.NewScanner()
	scanner.MaxFiles = cfg.Scan.MaxFiles
	scanner.ExcludeGlobs = cfg.Scan.Exclude
	scanner.RespectGitignore = cfg.Scan.RespectGitignore

	if cmd.Flags().Changed("max-files") {
		if v, err := cmd.Flags().GetInt("max-files"); err == nil && v > 0 {
			scanner.MaxFiles = v
		}
	}
	if cmd.Flags().Changed("exclude") {
		if v, err := cmd.Flags().GetStringSlice("exclude"); err == nil {
			scanner.ExcludeGlobs = v
		}
	}
	if cmd.Flags().Changed("respect-gitignore") {
		if v, err := cmd.Flags().GetBool("respect-gitignore"); err == nil {
			scanner.RespectGitignore = v
		}
	}
	return scanner
}

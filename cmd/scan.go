package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reliclabs/relic/pkg/exitcode"
)

func newScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [target]",
		Short: "Walk a repository tree and report file statistics",
		Long: `Scan walks the target directory, applies the fixed ignore set, retains
source and manifest files, and prints the file inventory with
per-language statistics as JSON.`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runScan,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().Int("max-files", 0, "Cap on filesystem entries visited (0 = configured default)")
	cmd.Flags().StringSlice("exclude", nil, "Glob patterns to exclude (relative to target)")
	cmd.Flags().Bool("respect-gitignore", false, "Layer the repository's .gitignore on the ignore set")
	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	cfg, err := loadConfigOrExit()
	if err != nil {
		return err
	}
	scanner := scannerFromFlags(cmd, cfg)

	files, stats, err := scanner.Scan(target)
	if err != nil {
		return &exitError{code: exitcode.FileSystemError, message: fmt.Sprintf("scan failed: %v", err)}
	}

	out, err := json.MarshalIndent(map[string]interface{}{
		"files": files,
		"stats": stats,
	}, "", "  ")
	if err != nil {
		return &exitError{code: exitcode.GeneralError, message: err.Error()}
	}
	cmd.Println(string(out))
	return nil
}

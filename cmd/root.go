package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/reliclabs/relic/pkg/buildinfo"
	"github.com/reliclabs/relic/pkg/exitcode"
	"github.com/reliclabs/relic/pkg/logger"
)

// newRootCommand creates a fresh root command instance.
// The factory pattern lets tests build isolated command trees without
// shared state.
func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relic",
		Short: "Repository analysis pipeline for legacy code",
		Long: `Relic scans a repository tree, extracts manifest dependencies, and runs
a legacy/security pattern catalog over the source to produce a
technical-debt report.

Examples:
   relic analyze .            # Full pipeline over the current directory
   relic scan ./repo          # File inventory and language statistics
   relic dependencies ./repo  # Manifest dependency extraction
   relic detect legacy.py     # Pattern detection on a single file`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			initializeLogger(cmd)
		},
	}

	cmd.PersistentFlags().String("log-level", "info", "Set log level (debug|info|warn|error)")
	cmd.PersistentFlags().Bool("json", false, "Output logs in JSON format")
	cmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	cmd.Version = buildinfo.BinaryVersion
	cmd.SetVersionTemplate("relic {{.Version}}\n")

	return cmd
}

// registerSubcommands adds all subcommands to the root command.
func registerSubcommands(cmd *cobra.Command) {
	cmd.AddCommand(newAnalyzeCommand())
	cmd.AddCommand(newScanCommand())
	cmd.AddCommand(newDependenciesCommand())
	cmd.AddCommand(newDetectCommand())
	cmd.AddCommand(versionCmd)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCommand()

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if coded, ok := err.(*exitError); ok {
			if coded.message != "" {
				logger.Error(coded.message)
			}
			os.Exit(coded.code)
		}
		logger.Error("Command execution failed", logger.Err(err))
		os.Exit(exitcode.GeneralError)
	}
}

func init() {
	registerSubcommands(rootCmd)
}

// exitError carries a specific exit code out of a RunE function.
type exitError struct {
	code    int
	message string
}

func (e *exitError) Error() string {
	if e.message != "" {
		return e.message
	}
	return exitcode.String(e.code)
}

// initializeLogger sets up the logger based on command flags.
func initializeLogger(cmd *cobra.Command) {
	levelStr, _ := cmd.Flags().GetString("log-level")
	jsonLogs, _ := cmd.Flags().GetBool("json")
	noColor, _ := cmd.Flags().GetBool("no-color")

	_ = logger.Initialize(logger.Config{
		Level:     logger.ParseLevel(levelStr),
		UseColor:  !noColor && !jsonLogs,
		JSON:      jsonLogs,
		Component: "relic",
	})
}

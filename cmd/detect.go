package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reliclabs/relic/internal/detect"
	"github.com/reliclabs/relic/pkg/exitcode"
	"github.com/reliclabs/relic/pkg/safeio"
)

func newDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <file>",
		Short: "Run the pattern catalog against a single source file",
		Long: `Detect evaluates every catalog rule against every line of the given
file and prints the severity-bucketed report plus the derived
technical-debt metrics as JSON.`,
		Args:          cobra.ExactArgs(1),
		RunE:          runDetect,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func runDetect(cmd *cobra.Command, args []string) error {
	clean, err := safeio.CleanUserPath(args[0])
	if err != nil {
		return &exitError{code: exitcode.FileSystemError, message: fmt.Sprintf("invalid file path: %v", err)}
	}
	content, err := os.ReadFile(clean) // #nosec G304 -- cleaned above
	if err != nil {
		return &exitError{code: exitcode.FileSystemError, message: fmt.Sprintf("reading %s: %v", clean, err)}
	}

	issues := detect.NewDetector().Detect(string(content))
	out, err := json.MarshalIndent(map[string]interface{}{
		"report":    detect.GenerateReport(issues),
		"tech_debt": detect.CalculateTechDebt(issues),
	}, "", "  ")
	if err != nil {
		return &exitError{code: exitcode.GeneralError, message: err.Error()}
	}
	cmd.Println(string(out))
	return nil
}

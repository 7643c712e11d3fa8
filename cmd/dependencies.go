package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/reliclabs/relic/internal/deps"
	"github.com/reliclabs/relic/pkg/exitcode"
)

func newDependenciesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dependencies [target]",
		Short: "Extract manifest dependencies from a repository root",
		Long: `Dependencies presence-checks the known manifest files at the target root
(not recursively), parses each one, and prints the combined dependency
list with per-ecosystem statistics as JSON.`,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runDependencies,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func runDependencies(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	extracted := deps.NewExtractor().ExtractFromRepository(target)
	out, err := json.MarshalIndent(map[string]interface{}{
		"dependencies": extracted,
		"stats":        deps.Statistics(extracted),
	}, "", "  ")
	if err != nil {
		return &exitError{code: exitcode.GeneralError, message: err.Error()}
	}
	cmd.Println(string(out))
	return nil
}

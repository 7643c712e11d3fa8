package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/reliclabs/relic/internal/analysis"
	"github.com/reliclabs/relic/internal/deps"
	"github.com/reliclabs/relic/internal/gitctx"
	"github.com/reliclabs/relic/internal/policy"
	"github.com/reliclabs/relic/internal/scan"
	"github.com/reliclabs/relic/pkg/exitcode"
	"github.com/reliclabs/relic/pkg/logger"
)

// targetReport wraps one target's analysis with its repository
// metadata and pipeline statistics.
type targetReport struct {
	Target          string              `json:"target"`
	Repo            *gitctx.RepoContext `json:"repo,omitempty"`
	ScanStats       scan.Stats          `json:"scan_stats"`
	DependencyStats deps.Stats          `json:"dependency_stats"`
	Result          *analysis.Result    `json:"result"`

	dependencies []deps.Dependency
}

func newAnalyzeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [targets...]",
		Short: "Run the full analysis pipeline over one or more targets",
		Long: `Analyze scans each target, extracts its manifest dependencies, runs the
pattern catalog over a sample of its source files, and emits one
analysis record per target. Multiple targets run concurrently; each
carries independent state.

Formats other than json render the analysis record alone; json output
also carries repository metadata and pipeline statistics.`,
		Args:          cobra.ArbitraryArgs,
		RunE:          runAnalyze,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().String("format", "", "Output format: json|yaml|markdown|xml (default from config)")
	cmd.Flags().StringP("output", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().Int("max-files", 0, "Cap on filesystem entries visited per target (0 = configured default)")
	cmd.Flags().Int("max-source-files", 0, "Cap on source files sampled for detection (0 = configured default)")
	cmd.Flags().StringSlice("exclude", nil, "Glob patterns to exclude (relative to each target)")
	cmd.Flags().Bool("respect-gitignore", false, "Layer each repository's .gitignore on the ignore set")
	cmd.Flags().String("policy", "", "YAML policy file to gate the results")
	cmd.Flags().Bool("validate", false, "Validate each result against the embedded schema")
	cmd.Flags().String("fail-under", "", "Exit non-zero when any grade is worse than this letter (A-F)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	targets := args
	if len(targets) == 0 {
		targets = []string{"."}
	}

	cfg, err := loadConfigOrExit()
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if v, _ := cmd.Flags().GetString("format"); v != "" {
		format = v
	}
	switch format {
	case "json", "yaml", "markdown", "xml":
	default:
		return &exitError{code: exitcode.ConfigError, message: fmt.Sprintf("unsupported format %q", format)}
	}

	failUnder, _ := cmd.Flags().GetString("fail-under")
	failUnder = strings.ToUpper(strings.TrimSpace(failUnder))
	if failUnder != "" {
		if _, ok := gradeRank[failUnder]; !ok {
			return &exitError{code: exitcode.ConfigError, message: fmt.Sprintf("invalid --fail-under grade %q", failUnder)}
		}
	}

	maxSourceFiles := cfg.Detect.MaxSourceFiles
	if v, _ := cmd.Flags().GetInt("max-source-files"); v > 0 {
		maxSourceFiles = v
	}

	reports := make([]*targetReport, len(targets))
	g, _ := errgroup.WithContext(cmd.Context())
	for i, target := range targets {
		g.Go(func() error {
			scanner := scannerFromFlags(cmd, cfg)
			files, stats, err := scanner.Scan(target)
			if err != nil {
				return &exitError{code: exitcode.FileSystemError, message: fmt.Sprintf("scanning %s: %v", target, err)}
			}
			if stats.Truncated {
				logger.Warn("scan truncated at the file cap; result is partial", logger.String("target", target))
			}

			dependencies := deps.NewExtractor().ExtractFromRepository(target)

			orchestrator := analysis.NewOrchestrator()
			orchestrator.MaxSourceFiles = maxSourceFiles
			result, err := orchestrator.Analyze(target, files, dependencies)
			if err != nil {
				return &exitError{code: exitcode.GeneralError, message: fmt.Sprintf("analyzing %s: %v", target, err)}
			}

			reports[i] = &targetReport{
				Target:          target,
				Repo:            gitctx.Collect(target),
				ScanStats:       stats,
				DependencyStats: deps.Statistics(dependencies),
				Result:          result,
				dependencies:    dependencies,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if validate, _ := cmd.Flags().GetBool("validate"); validate {
		if err := validateReports(reports); err != nil {
			return err
		}
	}

	rendered, err := renderReports(format, reports)
	if err != nil {
		return &exitError{code: exitcode.GeneralError, message: err.Error()}
	}
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		if err := os.WriteFile(outPath, []byte(rendered), 0o644); err != nil {
			return &exitError{code: exitcode.FileSystemError, message: fmt.Sprintf("writing %s: %v", outPath, err)}
		}
	} else {
		cmd.Print(rendered)
		if !strings.HasSuffix(rendered, "\n") {
			cmd.Println()
		}
	}

	if policyPath, _ := cmd.Flags().GetString("policy"); policyPath != "" {
		if err := enforcePolicy(cmd, policyPath, reports); err != nil {
			return err
		}
	}

	if failUnder != "" {
		for _, report := range reports {
			grade := report.Result.TechDebt.Grade
			if gradeRank[grade] > gradeRank[failUnder] {
				return &exitError{
					code:    exitcode.GradeThreshold,
					message: fmt.Sprintf("%s graded %s, below the required %s", report.Target, grade, failUnder),
				}
			}
		}
	}
	return nil
}

var gradeRank = map[string]int{"A": 0, "B": 1, "C": 2, "D": 3, "F": 4}

func validateReports(reports []*targetReport) error {
	for _, report := range reports {
		doc, err := report.Result.MarshalCanonical()
		if err != nil {
			return &exitError{code: exitcode.GeneralError, message: err.Error()}
		}
		outcome, err := analysis.ValidateResultJSON(doc)
		if err != nil {
			return &exitError{code: exitcode.SchemaError, message: fmt.Sprintf("validating %s: %v", report.Target, err)}
		}
		if !outcome.Valid {
			for _, verr := range outcome.Errors {
				logger.Error("schema violation", logger.String("target", report.Target),
					logger.String("path", verr.Path), logger.String("detail", verr.Message))
			}
			return &exitError{code: exitcode.SchemaError, message: fmt.Sprintf("%s: result does not satisfy the schema", report.Target)}
		}
	}
	return nil
}

func enforcePolicy(cmd *cobra.Command, policyPath string, reports []*targetReport) error {
	engine := policy.NewOPAEngine()
	if err := engine.LoadPolicy(policyPath); err != nil {
		return &exitError{code: exitcode.ConfigError, message: fmt.Sprintf("loading policy: %v", err)}
	}

	denied := false
	for _, report := range reports {
		input, err := policy.BuildInput(report.Result, report.dependencies)
		if err != nil {
			return &exitError{code: exitcode.GeneralError, message: err.Error()}
		}
		denials, err := engine.Evaluate(cmd.Context(), input)
		if err != nil {
			return &exitError{code: exitcode.GeneralError, message: fmt.Sprintf("evaluating policy for %s: %v", report.Target, err)}
		}
		for _, denial := range denials {
			denied = true
			cmd.PrintErrf("policy: %s: %s\n", report.Target, denial)
		}
	}
	if denied {
		return &exitError{code: exitcode.PolicyViolation, message: "policy violations found"}
	}
	return nil
}

func renderReports(format string, reports []*targetReport) (string, error) {
	switch format {
	case "json":
		var doc interface{} = reports
		if len(reports) == 1 {
			doc = reports[0]
		}
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out) + "\n", nil
	case "yaml":
		parts := make([]string, 0, len(reports))
		for _, report := range reports {
			out, err := analysis.RenderYAML(report.Result)
			if err != nil {
				return "", err
			}
			parts = append(parts, string(out))
		}
		return strings.Join(parts, "---\n"), nil
	case "markdown":
		parts := make([]string, 0, len(reports))
		for _, report := range reports {
			out, err := analysis.RenderMarkdown(report.Result)
			if err != nil {
				return "", err
			}
			parts = append(parts, out)
		}
		return strings.Join(parts, "\n\n---\n\n"), nil
	case "xml":
		parts := make([]string, 0, len(reports))
		for _, report := range reports {
			out, err := analysis.RenderCheckstyleXML(report.Result)
			if err != nil {
				return "", err
			}
			parts = append(parts, out)
		}
		return strings.Join(parts, "\n"), nil
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
}

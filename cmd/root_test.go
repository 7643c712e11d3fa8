package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reliclabs/relic/pkg/exitcode"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCommand()
	registerSubcommands(root)
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func exitCodeOf(t *testing.T, err error) int {
	t.Helper()
	coded, ok := err.(*exitError)
	if !ok {
		t.Fatalf("expected *exitError, got %T: %v", err, err)
	}
	return coded.code
}

func fixtureRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "relic ") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestScanCommand(t *testing.T) {
	root := fixtureRepo(t, map[string]string{
		"main.py":          "x = 1\n",
		"app.js":           "const x = 1;\n",
		"requirements.txt": "flask==2.0.1\n",
		"README.txt":       "not retained\n",
	})

	out, _, err := execute(t, "scan", root)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}

	var payload struct {
		Files []map[string]interface{} `json:"files"`
		Stats struct {
			TotalFiles int            `json:"total_files"`
			ByLanguage map[string]int `json:"by_language"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, out)
	}
	if payload.Stats.TotalFiles != 3 {
		t.Errorf("total_files = %d, want 3", payload.Stats.TotalFiles)
	}
	if payload.Stats.ByLanguage["config"] != 1 {
		t.Errorf("by_language = %v, want one config file", payload.Stats.ByLanguage)
	}
	if len(payload.Files) != 3 {
		t.Errorf("files = %d entries, want 3", len(payload.Files))
	}
}

func TestDependenciesCommand(t *testing.T) {
	root := fixtureRepo(t, map[string]string{
		"requirements.txt": "flask==2.0.1\nrequests>=2.25\n",
	})

	out, _, err := execute(t, "dependencies", root)
	if err != nil {
		t.Fatalf("dependencies: %v", err)
	}

	var payload struct {
		Dependencies []map[string]interface{} `json:"dependencies"`
		Stats        struct {
			Total int `json:"total"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, out)
	}
	if payload.Stats.Total != 2 || len(payload.Dependencies) != 2 {
		t.Errorf("got %d deps (stats %d), want 2", len(payload.Dependencies), payload.Stats.Total)
	}
}

func TestDetectCommand(t *testing.T) {
	root := fixtureRepo(t, map[string]string{
		"legacy.py": "print \"Hello\"\n",
	})

	out, _, err := execute(t, "detect", filepath.Join(root, "legacy.py"))
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	var payload struct {
		Report struct {
			TotalIssues int `json:"total_issues"`
			High        int `json:"high"`
		} `json:"report"`
		TechDebt struct {
			Grade string `json:"grade"`
		} `json:"tech_debt"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, out)
	}
	if payload.Report.TotalIssues != 1 || payload.Report.High != 1 {
		t.Errorf("report = %+v, want one HIGH issue", payload.Report)
	}
	if payload.TechDebt.Grade != "A" {
		t.Errorf("grade = %q, want A", payload.TechDebt.Grade)
	}
}

func TestDetectCommandMissingFile(t *testing.T) {
	_, _, err := execute(t, "detect", filepath.Join(t.TempDir(), "nope.py"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if code := exitCodeOf(t, err); code != exitcode.FileSystemError {
		t.Errorf("exit code = %d, want %d", code, exitcode.FileSystemError)
	}
}

func TestAnalyzeCommandJSON(t *testing.T) {
	root := fixtureRepo(t, map[string]string{
		"src/legacy.py":    "print \"Hello\"\n",
		"requirements.txt": "django==4.2\n",
	})

	out, _, err := execute(t, "analyze", root, "--validate")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	var report struct {
		Target string `json:"target"`
		Result struct {
			TotalFiles int `json:"total_files"`
			Issues     []struct {
				File string `json:"file"`
			} `json:"issues"`
			TechDebt struct {
				Grade string `json:"grade"`
			} `json:"tech_debt"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("output is not json: %v\n%s", err, out)
	}
	if report.Target != root {
		t.Errorf("target = %q, want %q", report.Target, root)
	}
	if report.Result.TotalFiles != 1 {
		t.Errorf("total_files = %d, want 1", report.Result.TotalFiles)
	}
	if len(report.Result.Issues) != 1 || report.Result.Issues[0].File != "src/legacy.py" {
		t.Errorf("issues = %+v, want one issue in src/legacy.py", report.Result.Issues)
	}
}

func TestAnalyzeCommandMultipleTargets(t *testing.T) {
	a := fixtureRepo(t, map[string]string{"a.py": "x = 1\n"})
	b := fixtureRepo(t, map[string]string{"b.py": "y = 2\n"})

	out, _, err := execute(t, "analyze", a, b)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	var reports []map[string]interface{}
	if err := json.Unmarshal([]byte(out), &reports); err != nil {
		t.Fatalf("output is not a json array: %v\n%s", err, out)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	// Report order follows argument order regardless of completion order.
	if reports[0]["target"] != a || reports[1]["target"] != b {
		t.Errorf("report order: %v, %v", reports[0]["target"], reports[1]["target"])
	}
}

func TestAnalyzeCommandMarkdown(t *testing.T) {
	root := fixtureRepo(t, map[string]string{"main.py": "x = 1\n"})

	out, _, err := execute(t, "analyze", root, "--format", "markdown")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.Contains(out, "# Repository Analysis") {
		t.Errorf("missing markdown header:\n%s", out)
	}
}

func TestAnalyzeCommandXMLToFile(t *testing.T) {
	root := fixtureRepo(t, map[string]string{"danger.py": "eval(x)\n"})
	outPath := filepath.Join(t.TempDir(), "report.xml")

	_, _, err := execute(t, "analyze", root, "--format", "xml", "--output", outPath)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(content), "<checkstyle") || !strings.Contains(string(content), "danger.py") {
		t.Errorf("unexpected xml output:\n%s", content)
	}
}

func TestAnalyzeCommandFailUnder(t *testing.T) {
	// Three CRITICAL issues: score 70, grade C.
	root := fixtureRepo(t, map[string]string{"danger.py": "eval(a)\neval(b)\neval(c)\n"})

	_, _, err := execute(t, "analyze", root, "--fail-under", "B")
	if err == nil {
		t.Fatal("expected a grade-threshold failure")
	}
	if code := exitCodeOf(t, err); code != exitcode.GradeThreshold {
		t.Errorf("exit code = %d, want %d", code, exitcode.GradeThreshold)
	}

	if _, _, err := execute(t, "analyze", root, "--fail-under", "C"); err != nil {
		t.Errorf("grade C should pass --fail-under C: %v", err)
	}
}

func TestAnalyzeCommandPolicy(t *testing.T) {
	root := fixtureRepo(t, map[string]string{
		"danger.py":        "eval(x)\n",
		"requirements.txt": "left-pad==1.0\n",
	})
	policyPath := filepath.Join(t.TempDir(), "policy.yaml")
	policyYAML := "forbidden_dependencies:\n  - left-pad\nmax_critical_issues: 0\n"
	if err := os.WriteFile(policyPath, []byte(policyYAML), 0o644); err != nil {
		t.Fatalf("write policy: %v", err)
	}

	_, errOut, err := execute(t, "analyze", root, "--policy", policyPath)
	if err == nil {
		t.Fatal("expected a policy violation")
	}
	if code := exitCodeOf(t, err); code != exitcode.PolicyViolation {
		t.Errorf("exit code = %d, want %d", code, exitcode.PolicyViolation)
	}
	if !strings.Contains(errOut, "left-pad") {
		t.Errorf("stderr does not name the forbidden dependency:\n%s", errOut)
	}
}

func TestAnalyzeCommandRejectsBadFormat(t *testing.T) {
	_, _, err := execute(t, "analyze", t.TempDir(), "--format", "csv")
	if err == nil {
		t.Fatal("expected an error for an unsupported format")
	}
	if code := exitCodeOf(t, err); code != exitcode.ConfigError {
		t.Errorf("exit code = %d, want %d", code, exitcode.ConfigError)
	}
}

package policy

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func evaluate(t *testing.T, policyYAML string, input map[string]interface{}) []string {
	t.Helper()
	engine := NewOPAEngine()
	if err := engine.LoadPolicyBytes([]byte(policyYAML)); err != nil {
		t.Fatalf("load policy: %v", err)
	}
	denials, err := engine.Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	return denials
}

func cleanInput() map[string]interface{} {
	return map[string]interface{}{
		"dependencies": []interface{}{
			map[string]interface{}{"name": "flask", "ecosystem": "pip"},
		},
		"result": map[string]interface{}{
			"issues": []interface{}{},
			"tech_debt": map[string]interface{}{
				"maintainability_score": 95,
				"grade":                 "A",
			},
		},
	}
}

func TestForbiddenDependencies(t *testing.T) {
	policyYAML := "forbidden_dependencies:\n  - left-pad\n  - Request\n"

	input := cleanInput()
	if denials := evaluate(t, policyYAML, input); len(denials) != 0 {
		t.Errorf("clean input denied: %v", denials)
	}

	input["dependencies"] = []interface{}{
		map[string]interface{}{"name": "left-pad", "ecosystem": "npm"},
		map[string]interface{}{"name": "request", "ecosystem": "npm"},
	}
	denials := evaluate(t, policyYAML, input)
	// Matching is case-insensitive on both sides.
	if len(denials) != 2 {
		t.Fatalf("got %d denials, want 2: %v", len(denials), denials)
	}
	if !strings.Contains(denials[0], "left-pad") {
		t.Errorf("denial does not name the dependency: %q", denials[0])
	}
}

func TestMinMaintainabilityScore(t *testing.T) {
	policyYAML := "min_maintainability_score: 70\n"

	input := cleanInput()
	if denials := evaluate(t, policyYAML, input); len(denials) != 0 {
		t.Errorf("score 95 denied: %v", denials)
	}

	input["result"].(map[string]interface{})["tech_debt"].(map[string]interface{})["maintainability_score"] = 65
	denials := evaluate(t, policyYAML, input)
	if len(denials) != 1 || !strings.Contains(denials[0], "below the policy minimum 70") {
		t.Errorf("got %v, want one below-minimum denial", denials)
	}
}

func TestMaxCriticalIssues(t *testing.T) {
	policyYAML := "max_critical_issues: 0\n"

	input := cleanInput()
	if denials := evaluate(t, policyYAML, input); len(denials) != 0 {
		t.Errorf("no critical issues denied: %v", denials)
	}

	input["result"].(map[string]interface{})["issues"] = []interface{}{
		map[string]interface{}{"severity": "CRITICAL", "file": "a.py"},
		map[string]interface{}{"severity": "HIGH", "file": "a.py"},
		map[string]interface{}{"severity": "CRITICAL", "file": "b.py"},
	}
	denials := evaluate(t, policyYAML, input)
	if len(denials) != 1 || !strings.Contains(denials[0], "exceeds the policy maximum 0") {
		t.Errorf("got %v, want one critical-count denial", denials)
	}
}

func TestEmptyPolicyDeniesNothing(t *testing.T) {
	input := cleanInput()
	input["dependencies"] = []interface{}{
		map[string]interface{}{"name": "anything"},
	}
	if denials := evaluate(t, "", input); len(denials) != 0 {
		t.Errorf("empty policy denied: %v", denials)
	}
}

func TestEvaluateWithoutPolicy(t *testing.T) {
	if _, err := NewOPAEngine().Evaluate(context.Background(), cleanInput()); err == nil {
		t.Error("expected an error with no policy loaded")
	}
}

func TestLoadPolicyFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	if err := os.WriteFile(path, []byte("min_maintainability_score: 90\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	engine := NewOPAEngine()
	if err := engine.LoadPolicy(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	input := cleanInput()
	input["result"].(map[string]interface{})["tech_debt"].(map[string]interface{})["maintainability_score"] = 80
	denials, err := engine.Evaluate(context.Background(), input)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(denials) != 1 {
		t.Errorf("got %v, want one denial", denials)
	}
}

func TestLoadPolicyMalformedYAML(t *testing.T) {
	if err := NewOPAEngine().LoadPolicyBytes([]byte("\t: nope")); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}

func TestBuildInput(t *testing.T) {
	type debt struct {
		Score int `json:"maintainability_score"`
	}
	type result struct {
		TechDebt debt `json:"tech_debt"`
	}
	input, err := BuildInput(result{TechDebt: debt{Score: 42}}, []map[string]string{{"name": "flask"}})
	if err != nil {
		t.Fatalf("build input: %v", err)
	}
	r, ok := input["result"].(map[string]interface{})
	if !ok {
		t.Fatalf("result not a map: %#v", input["result"])
	}
	td := r["tech_debt"].(map[string]interface{})
	if td["maintainability_score"].(float64) != 42 {
		t.Errorf("score = %v, want 42", td["maintainability_score"])
	}
	if _, ok := input["dependencies"].([]interface{}); !ok {
		t.Errorf("dependencies not a list: %#v", input["dependencies"])
	}
}

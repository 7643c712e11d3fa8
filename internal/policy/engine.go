// Package policy gates finished analyses through embedded OPA. A
// policy is a small YAML document transpiled to Rego at load time, so
// callers never write Rego themselves.
package policy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/open-policy-agent/opa/v1/rego"
	"gopkg.in/yaml.v3"

	"github.com/reliclabs/relic/pkg/safeio"
)

const regoQuery = "data.relic.analysis.deny"

// Document is the YAML policy shape. Absent fields impose no rule.
type Document struct {
	ForbiddenDependencies   []string `yaml:"forbidden_dependencies"`
	MinMaintainabilityScore *int     `yaml:"min_maintainability_score"`
	MaxCriticalIssues       *int     `yaml:"max_critical_issues"`
}

// Engine evaluates a loaded policy against analysis input.
type Engine interface {
	LoadPolicy(path string) error
	Evaluate(ctx context.Context, input interface{}) ([]string, error)
}

// OPAEngine runs policies through embedded OPA.
type OPAEngine struct {
	regoCode string
}

// NewOPAEngine returns an engine with no policy loaded.
func NewOPAEngine() *OPAEngine {
	return &OPAEngine{}
}

// LoadPolicy reads a YAML policy file and transpiles it to Rego.
func (e *OPAEngine) LoadPolicy(path string) error {
	clean, err := safeio.CleanUserPath(path)
	if err != nil {
		return fmt.Errorf("invalid policy path: %w", err)
	}
	data, err := os.ReadFile(clean) // #nosec G304 -- cleaned above
	if err != nil {
		return fmt.Errorf("reading policy file: %w", err)
	}
	return e.LoadPolicyBytes(data)
}

// LoadPolicyBytes transpiles an in-memory YAML policy.
func (e *OPAEngine) LoadPolicyBytes(data []byte) error {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing policy yaml: %w", err)
	}
	e.regoCode = transpile(doc)
	return nil
}

// Evaluate returns the sorted deny messages for the given input. An
// empty slice means the input passes the policy.
func (e *OPAEngine) Evaluate(ctx context.Context, input interface{}) ([]string, error) {
	if e.regoCode == "" {
		return nil, fmt.Errorf("no policy loaded")
	}

	rs, err := rego.New(
		rego.Query(regoQuery),
		rego.Input(input),
		rego.Module("policy.rego", e.regoCode),
	).Eval(ctx)
	if err != nil {
		return nil, fmt.Errorf("evaluating policy: %w", err)
	}

	var denials []string
	for _, result := range rs {
		for _, expr := range result.Expressions {
			values, ok := expr.Value.([]interface{})
			if !ok {
				continue
			}
			for _, v := range values {
				if msg, ok := v.(string); ok {
					denials = append(denials, msg)
				}
			}
		}
	}
	sort.Strings(denials)
	return denials, nil
}

// BuildInput shapes an analysis result and dependency list into the
// document the policy rules query. The JSON round trip guarantees the
// same field names the serialized result carries.
func BuildInput(result interface{}, dependencies interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(map[string]interface{}{
		"result":       result,
		"dependencies": dependencies,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding policy input: %w", err)
	}
	var input map[string]interface{}
	if err := json.Unmarshal(raw, &input); err != nil {
		return nil, fmt.Errorf("decoding policy input: %w", err)
	}
	return input, nil
}

// transpile renders the YAML policy as a Rego module. A policy with no
// rules still yields a valid module whose deny set is empty.
func transpile(doc Document) string {
	var buf bytes.Buffer
	buf.WriteString("package relic.analysis\n\n")

	if len(doc.ForbiddenDependencies) > 0 {
		buf.WriteString("deny contains msg if {\n")
		buf.WriteString("  dep := input.dependencies[_]\n")
		buf.WriteString("  forbidden := " + regoStringArray(doc.ForbiddenDependencies) + "\n")
		buf.WriteString("  lower(dep.name) == forbidden[_]\n")
		buf.WriteString("  msg := sprintf(\"dependency %v is forbidden by policy\", [dep.name])\n")
		buf.WriteString("}\n\n")
	}

	if doc.MinMaintainabilityScore != nil {
		buf.WriteString("deny contains msg if {\n")
		buf.WriteString("  score := input.result.tech_debt.maintainability_score\n")
		buf.WriteString(fmt.Sprintf("  score < %d\n", *doc.MinMaintainabilityScore))
		buf.WriteString(fmt.Sprintf("  msg := sprintf(\"maintainability score %%v is below the policy minimum %d\", [score])\n", *doc.MinMaintainabilityScore))
		buf.WriteString("}\n\n")
	}

	if doc.MaxCriticalIssues != nil {
		buf.WriteString("deny contains msg if {\n")
		buf.WriteString("  critical := count([1 | issue := input.result.issues[_]; issue.severity == \"CRITICAL\"])\n")
		buf.WriteString(fmt.Sprintf("  critical > %d\n", *doc.MaxCriticalIssues))
		buf.WriteString(fmt.Sprintf("  msg := sprintf(\"critical issue count %%v exceeds the policy maximum %d\", [critical])\n", *doc.MaxCriticalIssues))
		buf.WriteString("}\n\n")
	}

	return buf.String()
}

func regoStringArray(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", strings.ToLower(item))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

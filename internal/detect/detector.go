package detect

import "strings"

// Issue is one detected occurrence of a catalog rule on a specific line.
// File is empty until the orchestrator re-homes the issue with the
// repository-relative path of its source file.
type Issue struct {
	File        string   `json:"file,omitempty"`
	Severity    Severity `json:"severity"`
	Pattern     string   `json:"pattern"`
	Description string   `json:"description"`
	LineNumber  int      `json:"line_number"`
	Suggestion  string   `json:"suggestion"`
}

// Detector runs the pattern catalog against source text. It holds no
// state between calls; concurrent use over different inputs is safe.
type Detector struct {
	rules []Rule
}

// NewDetector returns a detector over the full catalog.
func NewDetector() *Detector {
	return &Detector{rules: Catalog}
}

// Detect evaluates every catalog rule against every line of source
// independently. Each matching (line, rule) pair yields exactly one
// Issue; a rule matching twice on one line still yields one. Lines are
// 1-based. Empty input yields no issues. Detect never fails: arbitrary
// text, including garbage bytes, simply produces whatever matches.
func (d *Detector) Detect(source string) []Issue {
	var issues []Issue
	lines := strings.Split(source, "\n")
	for i, line := range lines {
		for _, r := range d.rules {
			if r.Pattern.MatchString(line) {
				issues = append(issues, Issue{
					Severity:    r.Severity,
					Pattern:     r.Pattern.String(),
					Description: r.Description,
					LineNumber:  i + 1,
					Suggestion:  r.Suggestion,
				})
			}
		}
	}
	return issues
}

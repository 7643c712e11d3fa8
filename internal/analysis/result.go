// Package analysis composes scan, extraction, and detection outputs
// into one immutable result record. The orchestrator assembles
// sub-results; it never edits them after construction.
package analysis

import (
	"encoding/json"

	"github.com/reliclabs/relic/internal/detect"
)

// Confidence levels for framework detection.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
)

// LanguageStat is one language's share of the classified files.
type LanguageStat struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	FileCount  int     `json:"file_count"`
}

// Framework is one detected framework. Version is nil when the signal
// came from a marker file rather than a versioned dependency.
type Framework struct {
	Name       string  `json:"name"`
	Version    *string `json:"version,omitempty"`
	Confidence string  `json:"confidence"`
}

// Result is the full analysis record. All nested values are
// JSON-primitive compatible so the record can be persisted verbatim.
//
// TotalFiles counts the language-classified files (the config and
// unknown buckets are excluded), so Σ Languages[i].FileCount ==
// TotalFiles always holds. TotalLines sums line counts over the
// sampled source files only.
type Result struct {
	TotalFiles int             `json:"total_files"`
	TotalLines int             `json:"total_lines"`
	Languages  []LanguageStat  `json:"languages"`
	Frameworks []Framework     `json:"frameworks"`
	Issues     []detect.Issue  `json:"issues"`
	TechDebt   detect.TechDebt `json:"tech_debt"`
}

// MarshalCanonical renders the result as indented JSON with a stable
// field order. Two calls over the same result produce identical bytes.
func (r *Result) MarshalCanonical() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

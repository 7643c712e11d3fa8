// Package deps extracts dependency records from ecosystem manifest
// files. Each format parses independently and tolerates malformed
// input: a bad manifest yields a warning and an empty list, never an
// error.
package deps

// Ecosystem names the package ecosystem a dependency belongs to,
// derived from the manifest format, never from the dependency name.
type Ecosystem string

const (
	EcosystemPip Ecosystem = "pip"
	EcosystemNpm Ecosystem = "npm"
)

// Dependency is one extracted dependency record. Duplicate names across
// manifests are preserved as separate entries.
type Dependency struct {
	Name      string    `json:"name"`
	Version   *string   `json:"version"`
	Ecosystem Ecosystem `json:"ecosystem"`
	Dev       bool      `json:"is_dev"`
}

// Stats aggregates an extracted dependency list. Total always equals
// the list length; nothing is deduplicated.
type Stats struct {
	Total       int            `json:"total"`
	ByEcosystem map[string]int `json:"by_ecosystem"`
	Dev         int            `json:"dev_dependencies"`
	Prod        int            `json:"prod_dependencies"`
}

// Statistics computes aggregate counts over a dependency list.
func Statistics(dependencies []Dependency) Stats {
	stats := Stats{
		Total:       len(dependencies),
		ByEcosystem: make(map[string]int),
	}
	for _, dep := range dependencies {
		stats.ByEcosystem[string(dep.Ecosystem)]++
		if dep.Dev {
			stats.Dev++
		} else {
			stats.Prod++
		}
	}
	return stats
}

func version(v string) *string {
	return &v
}

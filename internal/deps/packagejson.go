package deps

import (
	"encoding/json"
	"sort"

	"github.com/reliclabs/relic/pkg/logger"
)

type packageManifest struct {
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// ParsePackageJSON extracts one dependency per entry of the
// dependencies and devDependencies objects of an npm package manifest.
// Version strings are copied verbatim (^/~ prefixes included). Entries
// are emitted in sorted key order so repeated runs are byte-identical.
// Malformed JSON yields a warning and an empty list.
func ParsePackageJSON(content string) []Dependency {
	var manifest packageManifest
	if err := json.Unmarshal([]byte(content), &manifest); err != nil {
		logger.Warn("failed to parse package.json", logger.Err(err))
		return nil
	}

	var dependencies []Dependency
	dependencies = append(dependencies, sortedNpmEntries(manifest.Dependencies, false)...)
	dependencies = append(dependencies, sortedNpmEntries(manifest.DevDependencies, true)...)
	return dependencies
}

func sortedNpmEntries(entries map[string]string, dev bool) []Dependency {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make([]Dependency, 0, len(names))
	for _, name := range names {
		deps = append(deps, Dependency{
			Name:      name,
			Version:   version(entries[name]),
			Ecosystem: EcosystemNpm,
			Dev:       dev,
		})
	}
	return deps
}

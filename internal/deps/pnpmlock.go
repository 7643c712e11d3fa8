package deps

import (
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/reliclabs/relic/pkg/logger"
)

type pnpmLock struct {
	Dependencies    map[string]pnpmLockEntry `yaml:"dependencies"`
	DevDependencies map[string]pnpmLockEntry `yaml:"devDependencies"`
}

// pnpmLockEntry tolerates both lockfile shapes: a plain version string
// (v5) and a node with a version field (v6+).
type pnpmLockEntry struct {
	Version string
}

func (e *pnpmLockEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		e.Version = value.Value
		return nil
	}
	var node struct {
		Version string `yaml:"version"`
	}
	if err := value.Decode(&node); err != nil {
		return err
	}
	e.Version = node.Version
	return nil
}

// ParsePnpmLock extracts dependencies from a pnpm-lock.yaml, reading
// the top-level dependencies and devDependencies maps. Entries are
// emitted in sorted key order. Malformed YAML yields a warning and an
// empty list.
func ParsePnpmLock(content string) []Dependency {
	var lock pnpmLock
	if err := yaml.Unmarshal([]byte(content), &lock); err != nil {
		logger.Warn("failed to parse pnpm-lock.yaml", logger.Err(err))
		return nil
	}

	var dependencies []Dependency
	dependencies = append(dependencies, sortedPnpmEntries(lock.Dependencies, false)...)
	dependencies = append(dependencies, sortedPnpmEntries(lock.DevDependencies, true)...)
	return dependencies
}

func sortedPnpmEntries(entries map[string]pnpmLockEntry, dev bool) []Dependency {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make([]Dependency, 0, len(names))
	for _, name := range names {
		dep := Dependency{Name: name, Ecosystem: EcosystemNpm, Dev: dev}
		if v := entries[name].Version; v != "" {
			dep.Version = version(v)
		}
		deps = append(deps, dep)
	}
	return deps
}

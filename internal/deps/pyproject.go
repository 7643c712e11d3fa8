package deps

import (
	"regexp"
	"strings"
)

// pyprojectDepLine captures `name = "version"` entries inside a
// dependencies table.
var pyprojectDepLine = regexp.MustCompile(`^([a-zA-Z0-9\-_]+)\s*=\s*["']([^"']+)["']`)

// dependency table headers that enter capture mode.
var pyprojectDepHeaders = []string{
	"[tool.poetry.dependencies]",
	"[project.dependencies]",
}

// ParsePyprojectTOML extracts dependencies from a pyproject.toml using
// a deliberate line-oriented scan rather than a full TOML parser: the
// detection target is the common subset of real-world files. The scan
// enters dependency mode on a known table header and leaves it on any
// other [...] header. Version strings are stripped of leading ^~>=<
// constraint characters. The pseudo-package "python" (an interpreter
// constraint, not a dependency) is excluded. Malformed content parses
// best-effort and never fails.
func ParsePyprojectTOML(content string) []Dependency {
	var dependencies []Dependency
	inDependencies := false

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if isDepHeader(line) {
			inDependencies = true
			continue
		}
		if strings.HasPrefix(line, "[") && inDependencies {
			inDependencies = false
		}

		if !inDependencies || !strings.Contains(line, "=") {
			continue
		}
		m := pyprojectDepLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[1]
		if strings.EqualFold(name, "python") {
			continue
		}
		ver := strings.TrimLeft(m[2], "^~>=<")
		dependencies = append(dependencies, Dependency{
			Name:      name,
			Version:   version(ver),
			Ecosystem: EcosystemPip,
		})
	}

	return dependencies
}

func isDepHeader(line string) bool {
	for _, header := range pyprojectDepHeaders {
		if strings.HasPrefix(line, header) {
			return true
		}
	}
	return false
}

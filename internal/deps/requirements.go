package deps

import (
	"regexp"
	"strings"
)

// requirementLine captures "name", the comparison operator and whatever
// trails it. Lines that do not start with a name character produce no
// dependency at all; malformed lines never fail extraction.
var requirementLine = regexp.MustCompile(`^([a-zA-Z0-9\-_.]+)([><=!]+)?(.+)?`)

// ParseRequirements extracts one dependency per non-empty, non-comment,
// non-flag line of a pip requirements list. The version is whatever
// trails the comparison operator, verbatim; a bare name has a nil
// version.
func ParseRequirements(content string) []Dependency {
	var dependencies []Dependency

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// -r/-e/--index-url style flags carry no dependency.
		if strings.HasPrefix(line, "-") {
			continue
		}

		m := requirementLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		dep := Dependency{Name: m[1], Ecosystem: EcosystemPip}
		if m[2] != "" && m[3] != "" {
			dep.Version = version(m[3])
		}
		dependencies = append(dependencies, dep)
	}

	return dependencies
}

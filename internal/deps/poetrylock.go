package deps

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/reliclabs/relic/pkg/logger"
)

type poetryLock struct {
	Packages []poetryLockPackage `toml:"package"`
}

type poetryLockPackage struct {
	Name     string `toml:"name"`
	Version  string `toml:"version"`
	Category string `toml:"category"`
}

// ParsePoetryLock extracts pinned dependencies from a poetry.lock file.
// Lockfiles are machine-written, so a real TOML parser is appropriate
// here (unlike pyproject.toml, which is scanned line-oriented).
// Packages in the "dev" category are marked as dev dependencies.
// Malformed content yields a warning and an empty list.
func ParsePoetryLock(content string) []Dependency {
	var lock poetryLock
	if err := toml.Unmarshal([]byte(content), &lock); err != nil {
		logger.Warn("failed to parse poetry.lock", logger.Err(err))
		return nil
	}

	var dependencies []Dependency
	for _, pkg := range lock.Packages {
		if pkg.Name == "" {
			continue
		}
		dep := Dependency{
			Name:      pkg.Name,
			Ecosystem: EcosystemPip,
			Dev:       pkg.Category == "dev",
		}
		if pkg.Version != "" {
			dep.Version = version(pkg.Version)
		}
		dependencies = append(dependencies, dep)
	}
	return dependencies
}

package deps

import (
	"os"
	"path/filepath"

	"github.com/reliclabs/relic/pkg/logger"
	"github.com/reliclabs/relic/pkg/safeio"
)

// manifestParsers maps manifest file names (checked at the repository
// root only, not recursively) to their extraction functions, in a fixed
// order so concatenated output is deterministic.
var manifestParsers = []struct {
	name  string
	parse func(string) []Dependency
}{
	{"requirements.txt", ParseRequirements},
	{"package.json", ParsePackageJSON},
	{"pyproject.toml", ParsePyprojectTOML},
	{"poetry.lock", ParsePoetryLock},
	{"pnpm-lock.yaml", ParsePnpmLock},
}

// Extractor extracts dependencies from a repository's root manifests.
// It holds no state; concurrent use over different roots is safe.
type Extractor struct{}

// NewExtractor returns a dependency extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFromRepository presence-checks each known manifest at the
// repository root and concatenates the per-format results. Unreadable
// or malformed manifests contribute nothing; extraction itself never
// fails.
func (e *Extractor) ExtractFromRepository(root string) []Dependency {
	var all []Dependency

	for _, mp := range manifestParsers {
		path := filepath.Join(root, mp.name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		content, err := safeio.ReadFileContained(root, path)
		if err != nil {
			logger.Warn("failed to read manifest",
				logger.String("manifest", mp.name), logger.Err(err))
			continue
		}
		extracted := mp.parse(string(content))
		logger.Debug("extracted dependencies",
			logger.String("manifest", mp.name), logger.Int("count", len(extracted)))
		all = append(all, extracted...)
	}

	logger.Debug("total dependencies extracted", logger.Int("count", len(all)))
	return all
}

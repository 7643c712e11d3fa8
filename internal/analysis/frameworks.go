package analysis

import (
	"path"
	"strings"

	"github.com/reliclabs/relic/internal/deps"
	"github.com/reliclabs/relic/internal/scan"
)

// frameworkKeyword maps a dependency-name substring to a framework
// display name. Slices keep the match order fixed.
type frameworkKeyword struct {
	keyword string
	name    string
}

var pythonFrameworks = []frameworkKeyword{
	{"django", "Django"},
	{"flask", "Flask"},
	{"fastapi", "FastAPI"},
	{"tornado", "Tornado"},
	{"pyramid", "Pyramid"},
}

var jsFrameworks = []frameworkKeyword{
	{"react", "React"},
	{"vue", "Vue.js"},
	{"angular", "Angular"},
	{"next", "Next.js"},
	{"express", "Express"},
	{"nestjs", "NestJS"},
}

// DetectFrameworks matches dependency names against the keyword tables
// by substring containment on the lowercased name. Every matching
// dependency contributes its own entry at high confidence, duplicates
// included. Marker files (manage.py, next.config.js/.ts) add a
// medium-confidence entry only when no entry of that name exists yet.
func DetectFrameworks(dependencies []deps.Dependency, files []scan.FileRecord) []Framework {
	frameworks := []Framework{}

	for _, dep := range dependencies {
		lower := strings.ToLower(dep.Name)
		for _, fk := range pythonFrameworks {
			if strings.Contains(lower, fk.keyword) {
				frameworks = append(frameworks, Framework{
					Name:       fk.name,
					Version:    dep.Version,
					Confidence: ConfidenceHigh,
				})
			}
		}
		for _, fk := range jsFrameworks {
			if strings.Contains(lower, fk.keyword) {
				frameworks = append(frameworks, Framework{
					Name:       fk.name,
					Version:    dep.Version,
					Confidence: ConfidenceHigh,
				})
			}
		}
	}

	names := make(map[string]struct{}, len(files))
	for _, f := range files {
		names[path.Base(f.RelPath)] = struct{}{}
	}

	if _, ok := names["manage.py"]; ok && !hasFramework(frameworks, "Django") {
		frameworks = append(frameworks, Framework{Name: "Django", Confidence: ConfidenceMedium})
	}
	_, js := names["next.config.js"]
	_, ts := names["next.config.ts"]
	if (js || ts) && !hasFramework(frameworks, "Next.js") {
		frameworks = append(frameworks, Framework{Name: "Next.js", Confidence: ConfidenceMedium})
	}

	return frameworks
}

func hasFramework(frameworks []Framework, name string) bool {
	for _, f := range frameworks {
		if f.Name == name {
			return true
		}
	}
	return false
}

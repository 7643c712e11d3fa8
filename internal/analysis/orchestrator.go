package analysis

import (
	"fmt"
	"os"
	"strings"

	"github.com/reliclabs/relic/internal/deps"
	"github.com/reliclabs/relic/internal/detect"
	"github.com/reliclabs/relic/internal/scan"
	"github.com/reliclabs/relic/pkg/logger"
	"github.com/reliclabs/relic/pkg/safeio"
)

// DefaultMaxSourceFiles bounds line-level detection per analysis run.
// Sampling is deliberate: callers must not assume every file was
// inspected.
const DefaultMaxSourceFiles = 50

// Orchestrator composes the scan, extraction, and detection outputs
// into a Result. It holds configuration only; each Analyze call
// carries its own state, so concurrent calls over different roots are
// safe.
type Orchestrator struct {
	// MaxSourceFiles caps how many Python files, in scan order, are
	// read for line-level detection.
	MaxSourceFiles int

	detector *detect.Detector
}

// NewOrchestrator returns an orchestrator with the default sample cap.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		MaxSourceFiles: DefaultMaxSourceFiles,
		detector:       detect.NewDetector(),
	}
}

// Analyze runs detection over a sample of the scanned files and
// assembles the analysis record. The sample is the first
// MaxSourceFiles Python files in scan order; unreadable files are
// skipped with a warning. Issues are re-homed with the file's
// root-relative path, preserving detector order per file and scan
// order across files.
func (o *Orchestrator) Analyze(root string, files []scan.FileRecord, dependencies []deps.Dependency) (*Result, error) {
	if root == "" {
		return nil, fmt.Errorf("analyze: empty root path")
	}

	issues := []detect.Issue{}
	totalLines := 0
	sampled := 0
	for _, record := range files {
		if record.Language != scan.LanguagePython {
			continue
		}
		if sampled >= o.MaxSourceFiles {
			break
		}
		sampled++

		content, err := os.ReadFile(record.Path)
		if err != nil {
			logger.Warn(fmt.Sprintf("skipping unreadable file %s: %v", record.RelPath, err))
			continue
		}
		source := string(content)
		totalLines += strings.Count(source, "\n") + 1

		rel, err := safeio.RepoRelPath(root, record.Path)
		if err != nil {
			logger.Warn(fmt.Sprintf("skipping file outside root %s: %v", record.Path, err))
			continue
		}
		for _, issue := range o.detector.Detect(source) {
			issue.File = rel
			issues = append(issues, issue)
		}
	}

	byLanguage := make(map[string]int)
	for _, record := range files {
		byLanguage[string(record.Language)]++
	}
	languages := LanguagePercentages(byLanguage)

	classifiedTotal := 0
	for _, l := range languages {
		classifiedTotal += l.FileCount
	}

	return &Result{
		TotalFiles: classifiedTotal,
		TotalLines: totalLines,
		Languages:  languages,
		Frameworks: DetectFrameworks(dependencies, files),
		Issues:     issues,
		TechDebt:   detect.CalculateTechDebt(issues),
	}, nil
}

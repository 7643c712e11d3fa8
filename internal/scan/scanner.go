// Package scan walks a repository tree and classifies the files worth
// analyzing. The walk treats the filesystem as read-only input.
package scan

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/reliclabs/relic/pkg/logger"
)

// Language is the classification bucket for a retained file.
type Language string

const (
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageConfig     Language = "config"
	LanguageUnknown    Language = "unknown"
)

var pythonExtensions = map[string]struct{}{
	".py": {}, ".pyw": {},
}

var javascriptExtensions = map[string]struct{}{
	".js": {}, ".jsx": {}, ".mjs": {}, ".cjs": {},
}

var typescriptExtensions = map[string]struct{}{
	".ts": {}, ".tsx": {},
}

// manifestFiles is the exact-name allow-list of ecosystem manifests.
var manifestFiles = map[string]struct{}{
	"requirements.txt":  {},
	"setup.py":          {},
	"pyproject.toml":    {},
	"Pipfile":           {},
	"package.json":      {},
	"package-lock.json": {},
	"yarn.lock":         {},
	"pnpm-lock.yaml":    {},
}

// ignoreDirs is the fixed directory-name set skipped at any depth.
var ignoreDirs = map[string]struct{}{
	".git": {}, ".svn": {}, ".hg": {},
	"node_modules": {}, "__pycache__": {}, ".pytest_cache": {},
	"venv": {}, "env": {}, ".venv": {}, ".env": {},
	"dist": {}, "build": {}, ".next": {}, ".nuxt": {},
	"coverage": {}, ".coverage": {}, "htmlcov": {},
	".idea": {}, ".vscode": {}, ".vs": {},
	"target": {}, "bin": {}, "obj": {},
}

// FileRecord describes one retained file. Records are immutable once
// produced.
type FileRecord struct {
	Path      string   `json:"-"`
	RelPath   string   `json:"path"`
	SizeBytes int64    `json:"size"`
	Extension string   `json:"extension"`
	Language  Language `json:"language"`
}

// Stats aggregates a scan. ByLanguage and ByExtension each sum to
// TotalFiles (the retained count). Truncated reports that the max-files
// cap was hit and the result is partial.
type Stats struct {
	TotalFiles  int            `json:"total_files"`
	TotalSize   int64          `json:"total_size"`
	ByLanguage  map[string]int `json:"by_language"`
	ByExtension map[string]int `json:"by_extension"`
	Truncated   bool           `json:"truncated"`
}

// Scanner walks a directory tree. A Scanner holds configuration only;
// each Scan call carries its own state, so one Scanner may serve
// concurrent scans of different roots.
type Scanner struct {
	// MaxFiles bounds the number of regular files visited (retained or
	// not). Hitting the cap yields a partial result, not an error.
	MaxFiles int
	// ExcludeGlobs are doublestar patterns matched against the
	// root-relative slash path; matches are walked but never retained.
	ExcludeGlobs []string
	// RespectGitignore layers the repository's gitignore patterns on
	// top of the fixed ignore set.
	RespectGitignore bool
}

// NewScanner returns a scanner with the default file cap.
func NewScanner() *Scanner {
	return &Scanner{MaxFiles: 1000}
}

// ClassifyLanguage derives a file's language bucket from its name and
// lowercased extension. Extension sets win over the manifest name
// match, so setup.py classifies as python, not config.
func ClassifyLanguage(name, ext string) Language {
	if _, ok := pythonExtensions[ext]; ok {
		return LanguagePython
	}
	if _, ok := javascriptExtensions[ext]; ok {
		return LanguageJavaScript
	}
	if _, ok := typescriptExtensions[ext]; ok {
		return LanguageTypeScript
	}
	if _, ok := manifestFiles[name]; ok {
		return LanguageConfig
	}
	return LanguageUnknown
}

// eligible reports whether a non-ignored file is retained for analysis.
func eligible(name, ext string) bool {
	if _, ok := manifestFiles[name]; ok {
		return true
	}
	if _, ok := pythonExtensions[ext]; ok {
		return true
	}
	if _, ok := javascriptExtensions[ext]; ok {
		return true
	}
	if _, ok := typescriptExtensions[ext]; ok {
		return true
	}
	return false
}

// Scan walks root and returns the retained files plus aggregate stats.
// Individual unreadable entries are skipped with a warning; a root that
// cannot be walked at all yields an empty result and a nil error.
func (s *Scanner) Scan(root string) ([]FileRecord, Stats, error) {
	maxFiles := s.MaxFiles
	if maxFiles <= 0 {
		maxFiles = 1000
	}

	stats := Stats{
		ByLanguage:  make(map[string]int),
		ByExtension: make(map[string]int),
	}
	var files []FileRecord

	var gitMatcher *gitignoreMatcher
	if s.RespectGitignore {
		gitMatcher = newGitignoreMatcher(root)
	}

	visited := 0
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("skipping unreadable entry", logger.String("path", path), logger.Err(err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if _, ignored := ignoreDirs[d.Name()]; ignored {
				return fs.SkipDir
			}
			if gitMatcher != nil && gitMatcher.ignored(rel, true) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		if visited >= maxFiles {
			stats.Truncated = true
			return fs.SkipAll
		}
		visited++

		name := d.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !eligible(name, ext) {
			return nil
		}
		if gitMatcher != nil && gitMatcher.ignored(rel, false) {
			return nil
		}
		if s.excluded(rel) {
			return nil
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			logger.Warn("skipping unreadable file", logger.String("path", path), logger.Err(infoErr))
			return nil
		}

		record := FileRecord{
			Path:      path,
			RelPath:   rel,
			SizeBytes: info.Size(),
			Extension: ext,
			Language:  ClassifyLanguage(name, ext),
		}
		files = append(files, record)
		stats.TotalFiles++
		stats.TotalSize += record.SizeBytes
		stats.ByLanguage[string(record.Language)]++
		stats.ByExtension[record.Extension]++
		return nil
	})

	if walkErr != nil {
		// An unwalkable root is an input error, recovered locally.
		logger.Warn("scan root is not walkable", logger.String("root", root), logger.Err(walkErr))
		return nil, Stats{ByLanguage: map[string]int{}, ByExtension: map[string]int{}}, nil
	}
	if stats.Truncated {
		logger.Warn("max file limit reached, scan result is partial",
			logger.Int("max_files", maxFiles), logger.String("root", root))
	}

	logger.Debug("scan complete",
		logger.Int("visited", visited), logger.Int("retained", stats.TotalFiles))
	return files, stats, nil
}

func (s *Scanner) excluded(rel string) bool {
	for _, pattern := range s.ExcludeGlobs {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

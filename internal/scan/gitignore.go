package scan

import (
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	gitignore "github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// gitignoreMatcher layers the repository's gitignore patterns on top of
// the fixed ignore set. It reads .gitignore files, the global excludes
// and .git/info/exclude, the same set git itself consults.
type gitignoreMatcher struct {
	matcher gitignore.Matcher
}

// newGitignoreMatcher builds a matcher for the repo at root. A repo
// without readable ignore files yields a matcher that ignores nothing.
func newGitignoreMatcher(root string) *gitignoreMatcher {
	fs := osfs.New(root)
	patterns, err := gitignore.ReadPatterns(fs, nil)
	if err != nil {
		patterns = nil
	}
	return &gitignoreMatcher{matcher: gitignore.NewMatcher(patterns)}
}

// ignored reports whether the root-relative slash path matches a
// gitignore pattern.
func (m *gitignoreMatcher) ignored(rel string, isDir bool) bool {
	parts := splitPath(rel)
	if len(parts) == 0 {
		return false
	}
	return m.matcher.Match(parts, isDir)
}

// splitPath converts a slash-separated path into components for the
// go-git matcher.
func splitPath(path string) []string {
	if path == "" || path == "." {
		return nil
	}
	path = strings.TrimPrefix(path, "/")
	parts := strings.Split(path, "/")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" && part != "." {
			result = append(result, part)
		}
	}
	return result
}

// Package safeio guards file access and user-provided paths against traversal.
package safeio

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	if strings.Contains(c, "..") {
		return "", errors.New("path traversal detected")
	}
	return filepath.ToSlash(c), nil
}

// RepoRelPath converts an absolute file path into a path relative to root,
// normalized to forward slashes. The result is guaranteed to be non-empty,
// to contain no leading slash, no ".." segment and no NUL byte; anything
// that cannot be expressed that way is an error.
func RepoRelPath(root, path string) (string, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", errors.New("failed to resolve root directory")
	}
	pathAbs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.New("failed to resolve file path")
	}
	rel, err := filepath.Rel(rootAbs, pathAbs)
	if err != nil {
		return "", errors.New("failed to compute relative path")
	}
	rel = filepath.ToSlash(rel)
	if rel == "" || rel == "." {
		return "", errors.New("path resolves to the root itself")
	}
	if rel == ".." || strings.HasPrefix(rel, "../") || strings.Contains(rel, "/../") {
		return "", errors.New("file path is outside root directory")
	}
	if strings.HasPrefix(rel, "/") || strings.HasPrefix(rel, "\\") {
		return "", errors.New("relative path must not be absolute")
	}
	if strings.ContainsRune(rel, 0) {
		return "", errors.New("path contains NUL byte")
	}
	return rel, nil
}

// ReadFileContained reads a file only if it is contained within baseDir.
// This prevents path traversal by ensuring the file path resolves to a
// location within the specified base directory.
func ReadFileContained(baseDir, filePath string) ([]byte, error) {
	baseDirAbs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.New("failed to resolve base directory")
	}
	filePathAbs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, errors.New("failed to resolve file path")
	}

	rel, err := filepath.Rel(baseDirAbs, filePathAbs)
	if err != nil {
		return nil, errors.New("failed to compute relative path")
	}
	if strings.HasPrefix(rel, ".."+string(filepath.Separator)) || rel == ".." {
		return nil, errors.New("file path is outside base directory")
	}

	// #nosec G304 -- filePathAbs has been verified to be contained within baseDirAbs
	return os.ReadFile(filePathAbs)
}

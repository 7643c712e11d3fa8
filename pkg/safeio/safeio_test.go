package safeio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCleanUserPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "foo/bar.py", false},
		{"dot segments collapse", "./foo/bar.py", false},
		{"traversal", "../etc/passwd", true},
		{"embedded traversal", "foo/../../etc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CleanUserPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("CleanUserPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestRepoRelPath(t *testing.T) {
	root := t.TempDir()

	rel, err := RepoRelPath(root, filepath.Join(root, "src", "app.py"))
	if err != nil {
		t.Fatalf("RepoRelPath failed: %v", err)
	}
	if rel != "src/app.py" {
		t.Errorf("rel = %q, want src/app.py", rel)
	}
	if strings.HasPrefix(rel, "/") || strings.Contains(rel, "..") {
		t.Errorf("rel path violates invariants: %q", rel)
	}

	if _, err := RepoRelPath(root, filepath.Join(root, "..", "outside.py")); err == nil {
		t.Error("expected error for path outside root")
	}
	if _, err := RepoRelPath(root, root); err == nil {
		t.Error("expected error for root itself")
	}
}

func TestReadFileContained(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "requirements.txt")
	if err := os.WriteFile(target, []byte("flask==2.0.1\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	data, err := ReadFileContained(base, target)
	if err != nil {
		t.Fatalf("ReadFileContained failed: %v", err)
	}
	if string(data) != "flask==2.0.1\n" {
		t.Errorf("unexpected content: %q", data)
	}

	if _, err := ReadFileContained(base, filepath.Join(base, "..", "escape.txt")); err == nil {
		t.Error("expected containment error")
	}
}

package gitctx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func TestCollectNotARepo(t *testing.T) {
	if ctx := Collect(t.TempDir()); ctx != nil {
		t.Errorf("expected nil context outside a repository, got %+v", ctx)
	}
}

func TestCollectEmptyRepo(t *testing.T) {
	dir := t.TempDir()
	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("init: %v", err)
	}
	// No commits yet: HEAD is unborn.
	if ctx := Collect(dir); ctx != nil {
		t.Errorf("expected nil context for an unborn HEAD, got %+v", ctx)
	}
}

func TestCollectCommittedRepo(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "main.py"), []byte("x = 1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := wt.Add("main.py"); err != nil {
		t.Fatalf("add: %v", err)
	}
	sig := &object.Signature{Name: "tester", Email: "tester@example.com", When: time.Now()}
	hash, err := wt.Commit("initial import\n\nlonger body\n", &git.CommitOptions{Author: sig})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	ctx := Collect(dir)
	if ctx == nil {
		t.Fatal("expected context for a committed repository")
	}
	if ctx.CommitSHA != hash.String() {
		t.Errorf("CommitSHA = %q, want %q", ctx.CommitSHA, hash.String())
	}
	if ctx.CommitMessage != "initial import" {
		t.Errorf("CommitMessage = %q, want first line only", ctx.CommitMessage)
	}
	if ctx.Branch == "" {
		t.Error("Branch is empty for a branch HEAD")
	}
	if ctx.Dirty {
		t.Error("Dirty = true immediately after commit")
	}

	// An untracked file flips the dirty flag.
	if err := os.WriteFile(filepath.Join(dir, "scratch.py"), []byte("y = 2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ctx = Collect(dir)
	if ctx == nil || !ctx.Dirty {
		t.Errorf("expected dirty worktree after adding a file, got %+v", ctx)
	}

	// Nested paths resolve to the enclosing repository.
	sub := filepath.Join(dir, "pkg")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if nested := Collect(sub); nested == nil || nested.CommitSHA != hash.String() {
		t.Errorf("expected nested path to resolve to the repository, got %+v", nested)
	}
}

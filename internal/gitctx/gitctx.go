// Package gitctx reads repository metadata for analyzed targets. All
// access is read-only; the analyzed tree is never mutated.
package gitctx

import (
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
)

// RepoContext is a minimal view of the analyzed repository's git state.
type RepoContext struct {
	Branch        string    `json:"branch,omitempty"`
	CommitSHA     string    `json:"commit_sha"`
	CommitMessage string    `json:"commit_message,omitempty"`
	CommitTime    time.Time `json:"commit_time"`
	Dirty         bool      `json:"dirty"`
}

// Collect gathers git metadata for the repository containing target.
// Returns nil when target is not inside a git repository or the
// repository has no commits yet; analysis proceeds without metadata in
// that case.
func Collect(target string) *RepoContext {
	repo, err := git.PlainOpenWithOptions(target, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil
	}
	head, err := repo.Head()
	if err != nil {
		return nil
	}

	ctx := &RepoContext{CommitSHA: head.Hash().String()}
	if head.Name().IsBranch() {
		ctx.Branch = head.Name().Short()
	}

	if commit, err := repo.CommitObject(head.Hash()); err == nil {
		ctx.CommitMessage = firstLine(commit.Message)
		ctx.CommitTime = commit.Author.When.UTC()
	}

	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			ctx.Dirty = !status.IsClean()
		}
	}
	return ctx
}

func firstLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		return strings.TrimSpace(message[:i])
	}
	return strings.TrimSpace(message)
}

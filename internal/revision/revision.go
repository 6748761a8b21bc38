// Package revision identifies the git commit a KiCad project was exported from.
package revision

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Info is the state of the repository enclosing a project directory.
type Info struct {
	Commit string `json:"commit"`
	Short  string `json:"short"`
	Branch string `json:"branch,omitempty"`
	Dirty  bool   `json:"dirty"`
}

func (i *Info) String() string {
	if i == nil {
		return ""
	}
	s := i.Short
	if i.Branch != "" {
		s = i.Branch + "@" + s
	}
	if i.Dirty {
		s += "-dirty"
	}
	return s
}

// Lookup opens the git repository containing dir, searching parent
// directories for .git. It returns nil without error when dir is not inside
// a repository or the repository has no commits yet.
func Lookup(dir string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve HEAD: %w", err)
	}

	hash := head.Hash().String()
	info := &Info{Commit: hash, Short: hash[:7]}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	wt, err := repo.Worktree()
	if err != nil {
		// Bare repositories have no worktree to be dirty.
		if errors.Is(err, git.ErrIsBareRepository) {
			return info, nil
		}
		return nil, fmt.Errorf("open worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("worktree status: %w", err)
	}
	info.Dirty = !status.IsClean()
	return info, nil
}

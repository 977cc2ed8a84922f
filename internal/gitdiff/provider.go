// Package gitdiff supplies the engine's diff abstraction from a local git
// repository: the changed-file list and the unified diff body for a base/head
// ref pair. The engine treats both as opaque input.
package gitdiff

import (
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/hashicorp/go-hclog"
)

// DiffResult is the resolved input for one review run.
type DiffResult struct {
	RepoRoot     string
	BaseRef      string
	HeadRef      string
	ChangedFiles []string
	UnifiedDiff  string
}

// Resolve opens the repository at repoRoot and computes the tree diff between
// baseRef and headRef. Refs accept anything git rev-parse accepts.
func Resolve(repoRoot, baseRef, headRef string, logger hclog.Logger) (*DiffResult, error) {
	if baseRef == "" {
		return nil, fmt.Errorf("base ref is required to compute diff")
	}
	if headRef == "" {
		return nil, fmt.Errorf("head ref is required to compute diff")
	}

	repo, err := git.PlainOpenWithOptions(repoRoot, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %q: %w", repoRoot, err)
	}

	baseTree, err := treeForRevision(repo, baseRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base %q: %w", baseRef, err)
	}
	headTree, err := treeForRevision(repo, headRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve head %q: %w", headRef, err)
	}

	patch, err := baseTree.Patch(headTree)
	if err != nil {
		return nil, fmt.Errorf("failed to compute diff: %w", err)
	}

	changed := changedFiles(patch)
	logger.Debug("diff resolved",
		"base", baseRef, "head", headRef, "changed_files", len(changed))

	return &DiffResult{
		RepoRoot:     repoRoot,
		BaseRef:      baseRef,
		HeadRef:      headRef,
		ChangedFiles: changed,
		UnifiedDiff:  patch.String(),
	}, nil
}

func treeForRevision(repo *git.Repository, rev string) (*object.Tree, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, err
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, err
	}
	return commit.Tree()
}

// changedFiles lists the new-side paths of the patch, deletions excluded,
// sorted for determinism.
func changedFiles(patch *object.Patch) []string {
	seen := make(map[string]bool)
	for _, fp := range patch.FilePatches() {
		_, to := fp.Files()
		if to == nil {
			continue
		}
		seen[to.Path()] = true
	}
	out := make([]string, 0, len(seen))
	for path := range seen {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

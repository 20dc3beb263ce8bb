package enum

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/praetorian-inc/schematic/pkg/types"
)

// GitEnumerator enumerates schematic files in the tree of one revision.
type GitEnumerator struct {
	config Config
	// Revision selects the commit to read (defaults to HEAD).
	Revision string
}

// NewGitEnumerator creates a new git enumerator for HEAD.
func NewGitEnumerator(config Config) *GitEnumerator {
	return &GitEnumerator{
		config:   config,
		Revision: "HEAD",
	}
}

// Enumerate yields every distinct text blob in the revision's tree. The
// callback is invoked sequentially.
func (e *GitEnumerator) Enumerate(ctx context.Context, callback Callback) error {
	repo, err := git.PlainOpen(e.config.Root)
	if err != nil {
		return fmt.Errorf("failed to open git repository: %w", err)
	}

	rev := e.Revision
	if rev == "" {
		rev = "HEAD"
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return fmt.Errorf("failed to resolve revision %s: %w", rev, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return fmt.Errorf("failed to get commit: %w", err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return fmt.Errorf("failed to get tree: %w", err)
	}

	meta := &types.CommitMetadata{
		CommitID:        commit.Hash.String(),
		AuthorName:      commit.Author.Name,
		AuthorEmail:     commit.Author.Email,
		AuthorTimestamp: commit.Author.When,
		Message:         commit.Message,
	}

	seen := make(map[plumbing.Hash]bool)
	err = tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !e.config.IncludeHidden && hiddenPath(f.Name) {
			return nil
		}
		if seen[f.Hash] {
			return nil
		}
		seen[f.Hash] = true

		if e.config.MaxFileSize > 0 && f.Size > e.config.MaxFileSize {
			return nil
		}
		if !e.config.wantExtension(f.Name) {
			return nil
		}

		content, err := f.Contents()
		if err != nil {
			return fmt.Errorf("failed to get contents of %s: %w", f.Name, err)
		}
		if isBinary([]byte(content)) {
			return nil
		}

		prov := types.GitProvenance{
			RepoPath: e.config.Root,
			Commit:   meta,
			BlobPath: f.Name,
		}
		return callback([]byte(content), types.ComputeSchematicID([]byte(content)), prov)
	})
	if err != nil {
		return fmt.Errorf("failed to walk tree: %w", err)
	}
	return nil
}

// hiddenPath reports whether any component of a slash-separated tree path
// is hidden.
func hiddenPath(name string) bool {
	for part := range strings.SplitSeq(name, "/") {
		if isHidden(part) {
			return true
		}
	}
	return false
}

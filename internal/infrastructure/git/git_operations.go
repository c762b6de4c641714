package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/bravo68web/folio/internal/domain/service"
	apperrors "github.com/bravo68web/folio/pkg/errors"
)

// GitOperations implements the GitService interface using go-git library.
// Every call opens the repository itself, so calls are safe to run in parallel.
type GitOperations struct{}

// NewGitOperations creates a new GitOperations instance
func NewGitOperations() *GitOperations {
	return &GitOperations{}
}

var _ service.GitService = (*GitOperations)(nil)

func open(repoPath string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, apperrors.NotFound("repository "+repoPath, apperrors.ErrNotFound)
		}
		return nil, apperrors.GitError("open repository", err)
	}
	return repo, nil
}

func resolveCommit(repo *git.Repository, ref string) (*object.Commit, error) {
	if ref == "" {
		ref = "HEAD"
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, apperrors.GitError("resolve "+ref, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, apperrors.GitError("read commit", err)
	}
	return commit, nil
}

// GetHEAD returns the commit hash HEAD points to
func (g *GitOperations) GetHEAD(ctx context.Context, repoPath string) (string, error) {
	repo, err := open(repoPath)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", apperrors.GitError("get HEAD", err)
	}
	return head.Hash().String(), nil
}

// ListFiles returns every file in the tree of ref
func (g *GitOperations) ListFiles(ctx context.Context, repoPath, ref string) ([]service.TreeFile, error) {
	repo, err := open(repoPath)
	if err != nil {
		return nil, err
	}
	commit, err := resolveCommit(repo, ref)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, apperrors.GitError("read tree", err)
	}

	var files []service.TreeFile
	err = tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		binary, err := f.IsBinary()
		if err != nil {
			return fmt.Errorf("inspect %s: %w", f.Name, err)
		}
		files = append(files, service.TreeFile{Path: f.Name, Size: f.Size, Binary: binary})
		return nil
	})
	if err != nil {
		return nil, apperrors.GitError("walk tree", err)
	}
	return files, nil
}

// GetBlame returns blame information for a file at a given ref
func (g *GitOperations) GetBlame(ctx context.Context, repoPath, ref, filePath string) ([]service.BlameLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := open(repoPath)
	if err != nil {
		return nil, err
	}
	commit, err := resolveCommit(repo, ref)
	if err != nil {
		return nil, err
	}

	result, err := git.Blame(commit, filePath)
	if err != nil {
		return nil, apperrors.GitError("blame "+filePath, err)
	}

	lines := make([]service.BlameLine, len(result.Lines))
	for i, l := range result.Lines {
		lines[i] = service.BlameLine{
			LineNo:  i + 1,
			Commit:  l.Hash.String(),
			Author:  l.AuthorName,
			Email:   l.Author,
			Date:    l.Date,
			Content: l.Text,
		}
	}
	return lines, nil
}

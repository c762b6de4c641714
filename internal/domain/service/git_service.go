package service

import (
	"context"
	"time"
)

// TreeFile is a tracked file in a commit's tree
type TreeFile struct {
	Path   string
	Size   int64
	Binary bool
}

// BlameLine represents a single line in a blame output
type BlameLine struct {
	LineNo  int
	Commit  string
	Author  string
	Email   string
	Date    time.Time // in the author's own offset
	Content string
}

// GitService defines the repository reads the log generator needs
type GitService interface {
	// GetHEAD returns the commit hash HEAD points to
	GetHEAD(ctx context.Context, repoPath string) (string, error)

	// ListFiles returns every file in the tree of ref
	ListFiles(ctx context.Context, repoPath, ref string) ([]TreeFile, error)

	// GetBlame returns blame information for a file at a given ref
	GetBlame(ctx context.Context, repoPath, ref, filePath string) ([]BlameLine, error)
}

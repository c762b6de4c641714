package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gitops "github.com/bravo68web/folio/internal/infrastructure/git"
	"github.com/bravo68web/folio/internal/meta"
)

// initRepo creates a repository with two commits: the first adds main.js,
// the second appends a line to it and adds style.css
func initRepo(t *testing.T) (string, []time.Time) {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	pst := time.FixedZone("", -8*3600)
	when := []time.Time{
		time.Date(2024, 1, 1, 9, 0, 0, 0, pst),
		time.Date(2024, 1, 2, 14, 30, 0, 0, pst),
	}

	commit := func(msg string, at time.Time, files map[string]string) {
		for name, content := range files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
			_, err := wt.Add(name)
			require.NoError(t, err)
		}
		_, err := wt.Commit(msg, &git.CommitOptions{
			Author: &object.Signature{Name: "Dylan", Email: "dylan@example.com", When: at},
		})
		require.NoError(t, err)
	}

	commit("init", when[0], map[string]string{
		"main.js": "function main() {\n  return 1;\n}\n",
	})
	commit("style", when[1], map[string]string{
		"main.js":   "function main() {\n  return 1;\n}\nmain();\n",
		"style.css": "body {\n\tcolor: red;\n}\n",
	})
	return dir, when
}

func TestGeneratorService_Generate(t *testing.T) {
	t.Parallel()
	repoDir, when := initRepo(t)
	store := newTempStorage(t, nil)
	gen := NewGeneratorService(gitops.NewGitOperations(), store)

	var progress []string
	result, err := gen.Generate(context.Background(), GenerateOptions{
		RepoPath: repoDir,
		Output:   "loc.csv",
		Workers:  2,
		Progress: func(done, total int, file string) {
			progress = append(progress, file)
			assert.Equal(t, 2, total)
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 7, result.Rows)
	assert.Len(t, result.Commit, 40)
	assert.ElementsMatch(t, []string{"main.js", "style.css"}, progress)

	data, err := store.ReadFile(context.Background(), "loc.csv")
	require.NoError(t, err)

	rows, summary, err := meta.NewLoader(time.UTC).Parse("loc.csv", strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Zero(t, summary.Skipped)
	require.Len(t, rows, 7)

	// main.js comes first, its last line from the second commit
	assert.Equal(t, "main.js", rows[0].File)
	assert.Equal(t, "js", rows[0].Type)
	assert.Equal(t, "Dylan", rows[0].Author)
	assert.Equal(t, "-08:00", rows[0].Timezone)
	assert.True(t, rows[0].Datetime.Equal(when[0]))
	assert.Equal(t, 1, rows[1].Depth)
	assert.True(t, rows[3].Datetime.Equal(when[1]))
	assert.NotEqual(t, rows[0].Commit, rows[3].Commit)

	assert.Equal(t, "style.css", rows[4].File)
	assert.Equal(t, "css", rows[4].Type)
	assert.Equal(t, 1, rows[5].Depth)
	assert.Equal(t, len("\tcolor: red;"), rows[5].Length)

	ds := meta.NewDataset(rows, summary, "")
	assert.Len(t, ds.Commits, 2)
}

func TestGeneratorService_IncludeExclude(t *testing.T) {
	t.Parallel()
	repoDir, _ := initRepo(t)
	gen := NewGeneratorService(gitops.NewGitOperations(), newTempStorage(t, nil))

	rows, result, err := gen.Collect(context.Background(), GenerateOptions{
		RepoPath: repoDir,
		Include:  []string{"*.css", "*.js"},
		Exclude:  []string{"main.*"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Files)
	assert.Equal(t, 1, result.Skipped)
	for _, r := range rows {
		assert.Equal(t, "style.css", r.File)
	}
}

func TestGeneratorService_BadGlob(t *testing.T) {
	t.Parallel()
	gen := NewGeneratorService(gitops.NewGitOperations(), newTempStorage(t, nil))

	_, _, err := gen.Collect(context.Background(), GenerateOptions{Include: []string{"[oops"}})
	require.Error(t, err)
}

func TestDepth(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Depth("x := 1", 2))
	assert.Equal(t, 2, Depth("    x", 2))
	assert.Equal(t, 1, Depth("    x", 4))
	assert.Equal(t, 2, Depth("\t\tx", 4))
	assert.Equal(t, 0, Depth("", 2))
}

func TestFileType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "js", FileType("src/app.js", nil))
	assert.Equal(t, "css", FileType("style.css", nil))
	assert.Equal(t, "go", FileType("main.go", []byte("package main\n")))
	assert.Equal(t, "dockerfile", FileType("Dockerfile", []byte("FROM alpine\n")))
}

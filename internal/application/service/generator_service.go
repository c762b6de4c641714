package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/src-d/enry/v2"
	"golang.org/x/sync/errgroup"

	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/domain/service"
	"github.com/bravo68web/folio/internal/meta"
	apperrors "github.com/bravo68web/folio/pkg/errors"
	"github.com/bravo68web/folio/pkg/logger"
)

// GenerateOptions controls one log generation run
type GenerateOptions struct {
	RepoPath string
	Ref      string   // defaults to HEAD
	Output   string   // storage path of the CSV
	Include  []string // path globs; empty means every file
	Exclude  []string // path globs, applied after Include
	Vendored bool     // keep files enry classifies as vendored
	Workers  int

	// IndentWidth is how many leading spaces count as one depth level.
	// A tab is always one level.
	IndentWidth int

	// Progress is called after each file is blamed
	Progress func(done, total int, file string)
}

// GenerateResult reports a finished generation run
type GenerateResult struct {
	Commit   string        `json:"commit"`
	Files    int           `json:"files"`
	Rows     int           `json:"rows"`
	Skipped  int           `json:"skipped"`
	Output   string        `json:"output"`
	Duration time.Duration `json:"duration_ns"`
}

// GeneratorService produces the per-line commit log from a git repository
type GeneratorService struct {
	git     service.GitService
	storage service.StorageService
	log     *logger.Logger
}

// NewGeneratorService creates a new GeneratorService instance
func NewGeneratorService(git service.GitService, storage service.StorageService) *GeneratorService {
	return &GeneratorService{
		git:     git,
		storage: storage,
		log:     logger.Get().WithFields(logger.Component("generator")),
	}
}

// Generate blames every selected file at ref and writes one CSV record per
// line to opts.Output
func (s *GeneratorService) Generate(ctx context.Context, opts GenerateOptions) (GenerateResult, error) {
	start := time.Now()
	if opts.Output == "" {
		return GenerateResult{}, apperrors.BadRequest("output path is required", apperrors.ErrInvalidInput)
	}

	rows, result, err := s.Collect(ctx, opts)
	if err != nil {
		return result, err
	}

	data, err := EncodeRows(rows)
	if err != nil {
		return result, err
	}
	if err := s.storage.WriteFile(ctx, opts.Output, data); err != nil {
		return result, apperrors.StorageError("write "+opts.Output, err)
	}

	result.Output = opts.Output
	result.Duration = time.Since(start)
	s.log.Info("Commit log generated",
		logger.String("repo", opts.RepoPath),
		logger.Commit(result.Commit),
		logger.Int("files", result.Files),
		logger.Rows(result.Rows),
		logger.Skipped(result.Skipped),
		logger.Duration("duration", result.Duration),
	)
	return result, nil
}

// Collect blames the selected files and returns their rows in path order
func (s *GeneratorService) Collect(ctx context.Context, opts GenerateOptions) ([]models.Row, GenerateResult, error) {
	var result GenerateResult

	include, err := compileGlobs(opts.Include)
	if err != nil {
		return nil, result, err
	}
	exclude, err := compileGlobs(opts.Exclude)
	if err != nil {
		return nil, result, err
	}

	ref := opts.Ref
	if ref == "" {
		if result.Commit, err = s.git.GetHEAD(ctx, opts.RepoPath); err != nil {
			return nil, result, err
		}
		ref = result.Commit
	} else {
		result.Commit = ref
	}

	tree, err := s.git.ListFiles(ctx, opts.RepoPath, ref)
	if err != nil {
		return nil, result, err
	}

	var files []string
	for _, f := range tree {
		if f.Binary || f.Size == 0 {
			result.Skipped++
			continue
		}
		if !opts.Vendored && enry.IsVendor(f.Path) {
			result.Skipped++
			continue
		}
		if !selected(f.Path, include, exclude) {
			result.Skipped++
			continue
		}
		files = append(files, f.Path)
	}
	result.Files = len(files)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	indent := opts.IndentWidth
	if indent <= 0 {
		indent = 2
	}

	perFile := make([][]models.Row, len(files))
	var (
		mu   sync.Mutex
		done int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, file := range files {
		g.Go(func() error {
			lines, err := s.git.GetBlame(gctx, opts.RepoPath, ref, file)
			if err != nil {
				return fmt.Errorf("blame %s: %w", file, err)
			}
			perFile[i] = blameRows(file, lines, indent)

			if opts.Progress != nil {
				mu.Lock()
				done++
				opts.Progress(done, len(files), file)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, result, err
	}

	var rows []models.Row
	for _, fileRows := range perFile {
		rows = append(rows, fileRows...)
	}
	result.Rows = len(rows)
	return rows, result, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	out := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, apperrors.BadRequest(fmt.Sprintf("invalid glob %q", pattern), err)
		}
		out = append(out, g)
	}
	return out, nil
}

func selected(file string, include, exclude []glob.Glob) bool {
	for _, g := range exclude {
		if g.Match(file) {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, g := range include {
		if g.Match(file) {
			return true
		}
	}
	return false
}

func blameRows(file string, lines []service.BlameLine, indent int) []models.Row {
	content := make([]string, len(lines))
	for i, l := range lines {
		content[i] = l.Content
	}
	typ := FileType(file, []byte(strings.Join(content, "\n")))

	rows := make([]models.Row, len(lines))
	for i, l := range lines {
		y, m, d := l.Date.Date()
		rows[i] = models.Row{
			File:     file,
			Commit:   l.Commit,
			Author:   l.Author,
			Date:     time.Date(y, m, d, 0, 0, 0, 0, l.Date.Location()),
			Time:     l.Date.Format("15:04:05"),
			Timezone: l.Date.Format("-07:00"),
			Datetime: l.Date,
			Line:     l.LineNo,
			Depth:    Depth(l.Content, indent),
			Length:   len(l.Content),
			Type:     typ,
		}
	}
	return rows
}

// FileType tags a file by its extension when enry knows the extension,
// otherwise by the language enry detects from the name and content, e.g.
// "dockerfile". Unclassified files are "text".
func FileType(file string, content []byte) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(file), "."))
	if ext != "" {
		if lang, _ := enry.GetLanguageByExtension(file); lang != "" {
			return ext
		}
	}
	if lang := enry.GetLanguage(path.Base(file), content); lang != "" {
		return strings.ReplaceAll(strings.ToLower(lang), " ", "-")
	}
	if ext != "" {
		return ext
	}
	return "text"
}

// Depth counts the indentation levels of line: each tab is one level and
// every indent spaces are one level
func Depth(line string, indent int) int {
	levels, spaces := 0, 0
	for _, r := range line {
		switch r {
		case '\t':
			levels++
		case ' ':
			spaces++
		default:
			return levels + spaces/indent
		}
	}
	return levels + spaces/indent
}

// EncodeRows writes rows as a commit log CSV with a header row
func EncodeRows(rows []models.Row) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(meta.Columns); err != nil {
		return nil, err
	}
	for _, r := range rows {
		record := []string{
			r.File,
			strconv.Itoa(r.Line),
			r.Type,
			r.Commit,
			r.Author,
			r.Date.Format("2006-01-02"),
			r.Time,
			r.Timezone,
			r.Datetime.Format(time.RFC3339),
			strconv.Itoa(r.Depth),
			strconv.Itoa(r.Length),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode commit log: %w", err)
	}
	return buf.Bytes(), nil
}

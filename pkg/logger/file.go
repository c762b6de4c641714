package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const defaultMaxSizeMB = 100

// rotatingFile is an io.WriteCloser that renames the active file to a
// timestamped backup once it reaches maxSizeMB and prunes old backups.
type rotatingFile struct {
	path       string
	maxSizeMB  int
	maxBackups int
	maxAgeDays int

	mu   sync.Mutex
	file *os.File
	size int64
}

func (w *rotatingFile) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		if err := w.open(); err != nil {
			return 0, err
		}
	}

	if w.size+int64(len(p)) > w.limit() && w.size > 0 {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// Sync is called by zap through zapcore.AddSync
func (w *rotatingFile) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}

func (w *rotatingFile) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.closeLocked()
}

func (w *rotatingFile) limit() int64 {
	mb := w.maxSizeMB
	if mb <= 0 {
		mb = defaultMaxSizeMB
	}
	return int64(mb) * 1024 * 1024
}

func (w *rotatingFile) open() error {
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	w.file = f
	w.size = info.Size()
	return nil
}

func (w *rotatingFile) closeLocked() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	w.size = 0
	return err
}

func (w *rotatingFile) rotate() error {
	if err := w.closeLocked(); err != nil {
		return err
	}

	stem, ext := w.split()
	backup := filepath.Join(filepath.Dir(w.path),
		fmt.Sprintf("%s-%s%s", stem, time.Now().Format("2006-01-02T15-04-05.000"), ext))

	if err := os.Rename(w.path, backup); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}

	if err := w.open(); err != nil {
		return err
	}

	w.prune()
	return nil
}

func (w *rotatingFile) split() (stem, ext string) {
	base := filepath.Base(w.path)
	ext = filepath.Ext(base)
	return strings.TrimSuffix(base, ext), ext
}

// prune removes backups beyond maxBackups and older than maxAgeDays, newest kept first.
func (w *rotatingFile) prune() {
	stem, ext := w.split()
	matches, err := filepath.Glob(filepath.Join(filepath.Dir(w.path), stem+"-*"+ext))
	if err != nil {
		return
	}

	type backup struct {
		path string
		mod  time.Time
	}
	backups := make([]backup, 0, len(matches))
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil {
			backups = append(backups, backup{path: m, mod: info.ModTime()})
		}
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].mod.After(backups[j].mod) })

	cutoff := time.Time{}
	if w.maxAgeDays > 0 {
		cutoff = time.Now().AddDate(0, 0, -w.maxAgeDays)
	}
	for i, b := range backups {
		if (w.maxBackups > 0 && i >= w.maxBackups) || b.mod.Before(cutoff) {
			_ = os.Remove(b.path)
		}
	}
}

var _ io.WriteCloser = (*rotatingFile)(nil)

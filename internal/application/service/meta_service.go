package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bravo68web/folio/internal/config"
	"github.com/bravo68web/folio/internal/domain/models"
	"github.com/bravo68web/folio/internal/domain/repository"
	"github.com/bravo68web/folio/internal/domain/service"
	"github.com/bravo68web/folio/internal/meta"
	"github.com/bravo68web/folio/internal/observability"
	apperrors "github.com/bravo68web/folio/pkg/errors"
	"github.com/bravo68web/folio/pkg/logger"
)

// Reload triggers, used as metric labels and in logs
const (
	TriggerStartup = "startup"
	TriggerAdmin   = "admin"
	TriggerWatch   = "watch"
	TriggerCron    = "cron"
	TriggerCLI     = "cli"
)

// MetaService owns the current commit dataset. Loads build a new dataset
// and swap it in whole; readers always see one complete dataset.
type MetaService struct {
	storage service.StorageService
	rows    repository.LocRowRepository // nil unless meta.source is database
	config  *config.MetaConfig
	loader  *meta.Loader
	log     *logger.Logger

	// serializes loads so two triggers never parse concurrently
	loadMu sync.Mutex

	mu          sync.RWMutex
	dataset     *meta.Dataset
	fingerprint string
}

// NewMetaService creates a new MetaService instance
func NewMetaService(
	storage service.StorageService,
	rows repository.LocRowRepository,
	cfg *config.MetaConfig,
) (*MetaService, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid meta timezone: %w", err)
	}
	if cfg.FromDatabase() && rows == nil {
		return nil, errors.New("meta source is database but no row repository is configured")
	}

	return &MetaService{
		storage: storage,
		rows:    rows,
		config:  cfg,
		loader:  meta.NewLoader(loc),
		log:     logger.Get().WithFields(logger.Component("meta")),
	}, nil
}

// Source names where the commit log is read from
func (s *MetaService) Source() string {
	if s.config.FromDatabase() {
		return "database:loc_rows"
	}
	return s.config.LogPath
}

// Load reads the commit log and replaces the current dataset. On failure
// the previous dataset stays in place.
func (s *MetaService) Load(ctx context.Context, trigger string) (models.LoadSummary, error) {
	return s.load(ctx, trigger, false)
}

// Refresh reloads only when the log changed since the last load. It
// reports whether a new dataset was swapped in.
func (s *MetaService) Refresh(ctx context.Context, trigger string) (bool, error) {
	summary, err := s.load(ctx, trigger, true)
	if err != nil {
		return false, err
	}
	return !summary.LoadedAt.IsZero(), nil
}

func (s *MetaService) load(ctx context.Context, trigger string, skipUnchanged bool) (models.LoadSummary, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	log := s.log.WithContext(ctx).WithFields(logger.Source(s.Source()), logger.String("trigger", trigger))
	start := time.Now()

	fingerprint, err := s.sourceFingerprint(ctx)
	if err != nil {
		return s.fail(log, trigger, meta.Unavailable(s.Source(), err))
	}
	if skipUnchanged && fingerprint != "" && fingerprint == s.currentFingerprint() {
		observability.DatasetLoadsTotal.WithLabelValues(trigger, observability.ResultUnchanged).Inc()
		log.Debug("Commit log unchanged, skipping reload", logger.Fingerprint(fingerprint))
		return models.LoadSummary{}, nil
	}

	rows, summary, err := s.readRows(ctx)
	if err != nil {
		return s.fail(log, trigger, err)
	}

	ds := meta.NewDataset(rows, summary, s.config.CommitURLBase)

	s.mu.Lock()
	s.dataset = ds
	s.fingerprint = fingerprint
	s.mu.Unlock()

	elapsed := time.Since(start)
	observability.DatasetLoadsTotal.WithLabelValues(trigger, observability.ResultOK).Inc()
	observability.DatasetLoadDuration.Observe(elapsed.Seconds())
	observability.DatasetRows.Set(float64(summary.Loaded))
	observability.DatasetSkippedRows.Set(float64(summary.Skipped))
	observability.DatasetCommits.Set(float64(len(ds.Commits)))

	log.Info("Commit log loaded",
		logger.Rows(summary.Loaded),
		logger.Skipped(summary.Skipped),
		logger.Int("commits", len(ds.Commits)),
		logger.Duration("duration", elapsed),
	)
	for _, rowErr := range summary.Errors {
		log.Debug("Skipped log record", logger.Int("line", rowErr.Line), logger.String("reason", rowErr.Reason))
	}

	return summary, nil
}

func (s *MetaService) fail(log *logger.Logger, trigger string, err error) (models.LoadSummary, error) {
	observability.DatasetLoadsTotal.WithLabelValues(trigger, observability.ResultError).Inc()
	log.Error("Failed to load commit log", logger.Error(err))
	return models.LoadSummary{}, apperrors.LoadFailed(s.Source(), err)
}

// ReadLog parses the commit log from storage without touching the current
// dataset. The import command uses it to feed the database.
func (s *MetaService) ReadLog(ctx context.Context) ([]models.Row, models.LoadSummary, error) {
	source := s.config.LogPath

	body, err := s.storage.OpenFile(ctx, source)
	if err != nil {
		return nil, models.LoadSummary{Source: source}, meta.Unavailable(source, err)
	}
	defer body.Close()

	return s.loader.Parse(source, body)
}

func (s *MetaService) readRows(ctx context.Context) ([]models.Row, models.LoadSummary, error) {
	if !s.config.FromDatabase() {
		return s.ReadLog(ctx)
	}

	start := time.Now()
	records, err := s.rows.List(ctx)
	if err != nil {
		return nil, models.LoadSummary{}, meta.Unavailable(s.Source(), err)
	}

	rows := make([]models.Row, len(records))
	for i, rec := range records {
		rows[i] = rec.ToRow(s.loader.Location)
	}
	now := time.Now()
	return rows, models.LoadSummary{
		Source:   s.Source(),
		Records:  len(records),
		Loaded:   len(rows),
		Duration: now.Sub(start),
		LoadedAt: now,
	}, nil
}

// sourceFingerprint identifies the current version of the log
func (s *MetaService) sourceFingerprint(ctx context.Context) (string, error) {
	if s.config.FromDatabase() {
		count, err := s.rows.Count(ctx)
		if err != nil {
			return "", err
		}
		last, err := s.rows.LastImport(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d@%s", count, last.UTC().Format(time.RFC3339Nano)), nil
	}

	info, err := s.storage.Stat(ctx, s.config.LogPath)
	if err != nil {
		return "", err
	}
	return info.Fingerprint(), nil
}

func (s *MetaService) currentFingerprint() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fingerprint
}

// Dataset returns the current dataset
func (s *MetaService) Dataset() (*meta.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.dataset == nil {
		return nil, apperrors.NotLoaded()
	}
	return s.dataset, nil
}

// Ready reports whether a dataset has been loaded
func (s *MetaService) Ready() bool {
	_, err := s.Dataset()
	return err == nil
}

// Stats returns the stats panel of the current dataset
func (s *MetaService) Stats() ([]models.Stat, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return meta.Stats(ds.Rows, ds.Commits), nil
}

// View computes the dashboard state for q
func (s *MetaService) View(q meta.Query) (meta.ViewState, error) {
	ds, err := s.Dataset()
	if err != nil {
		return meta.ViewState{}, err
	}

	v, err := ds.View(q)
	if err != nil {
		if errors.Is(err, meta.ErrStepOutOfRange) {
			return meta.ViewState{}, apperrors.BadRequest(err.Error(), apperrors.ErrInvalidInput)
		}
		return meta.ViewState{}, err
	}
	return v, nil
}

// CommitRows returns one commit and its rows, both from the same dataset
func (s *MetaService) CommitRows(id string) (models.Commit, []models.Row, error) {
	ds, err := s.Dataset()
	if err != nil {
		return models.Commit{}, nil, err
	}

	commit, ok := ds.Commit(id)
	if !ok {
		return models.Commit{}, nil, apperrors.NotFound("commit "+id, apperrors.ErrNotFound)
	}
	rows, _ := ds.Index().Rows(id)
	return commit, rows, nil
}

// Summary returns the load summary of the current dataset
func (s *MetaService) Summary() (models.LoadSummary, error) {
	ds, err := s.Dataset()
	if err != nil {
		return models.LoadSummary{}, err
	}
	return ds.Summary, nil
}

// NewScrubber starts an interactive session over the current dataset
func (s *MetaService) NewScrubber() (*meta.Scrubber, error) {
	ds, err := s.Dataset()
	if err != nil {
		return nil, err
	}
	return meta.NewScrubber(ds), nil
}

package service

import (
	"context"
	"sync"
	"time"

	"github.com/bravo68web/folio/pkg/logger"
)

// refreshTimeout bounds one scheduled refresh
const refreshTimeout = 5 * time.Minute

// Refresher is the part of ReloadService the cron needs
type Refresher interface {
	Refresh(ctx context.Context, trigger string) (ReloadResult, error)
}

// RefreshCronService periodically reloads the site data when it changed
type RefreshCronService struct {
	refresher Refresher
	interval  time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	running   bool
	mu        sync.Mutex
	log       *logger.Logger
}

// NewRefreshCronService creates a new refresh cron service
func NewRefreshCronService(refresher Refresher, interval time.Duration) *RefreshCronService {
	if interval == 0 {
		interval = 10 * time.Minute
	}

	return &RefreshCronService{
		refresher: refresher,
		interval:  interval,
		log:       logger.Get().WithFields(logger.Component("refresh_cron")),
	}
}

// Start starts the cron scheduler
func (s *RefreshCronService) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("Refresh cron service already running")
		return
	}

	s.running = true
	s.stopChan = make(chan struct{})
	s.wg.Add(1)

	go s.run(s.stopChan)

	s.log.Info("Refresh cron service started",
		logger.String("interval", s.interval.String()),
	)
}

// Stop stops the cron scheduler
func (s *RefreshCronService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.log.Info("Stopping refresh cron service")
	close(s.stopChan)
	s.running = false

	s.wg.Wait()

	s.log.Info("Refresh cron service stopped")
}

// run is the main loop; the first refresh happens one interval after
// Start since startup already loaded everything
func (s *RefreshCronService) run(stop <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.refresh()
		case <-stop:
			return
		}
	}
}

func (s *RefreshCronService) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	result, err := s.refresher.Refresh(ctx, TriggerCron)
	if err != nil {
		s.log.Error("Scheduled refresh failed", logger.Error(err))
		return
	}
	if result.Changed {
		s.log.Info("Scheduled refresh reloaded the commit log", logger.Rows(result.Meta.Loaded))
	}
}

// IsRunning returns whether the cron service is running
func (s *RefreshCronService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// GetInterval returns the refresh interval
func (s *RefreshCronService) GetInterval() time.Duration {
	return s.interval
}

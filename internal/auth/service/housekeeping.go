package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/store"
)

// DefaultHistoryRetention is how long login history is kept.
const DefaultHistoryRetention = 90 * 24 * time.Hour

// HousekeepingService periodically prunes login history older than the
// retention period so the table doesn't grow without bound.
type HousekeepingService struct {
	Store     store.Store
	Logger    *slog.Logger
	Interval  time.Duration
	Retention time.Duration

	now func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service. Non-positive
// interval or retention fall back to 1h and DefaultHistoryRetention.
func NewHousekeepingService(
	st store.Store,
	logger *slog.Logger,
	interval, retention time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = DefaultHistoryRetention
	}

	return &HousekeepingService{
		Store:     st,
		Logger:    logger,
		Interval:  interval,
		Retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the background worker. It runs one cleanup straight away.
// Call Stop to shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval, "retention", s.Retention)
}

// Stop shuts the worker down and waits for an in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup deletes history older than now-Retention.
func (s *HousekeepingService) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Interval)
	defer cancel()

	cutoff := s.now().Add(-s.Retention)
	n, err := s.Store.LoginEvents().DeleteLoginEventsBefore(ctx, cutoff)
	if err != nil {
		s.Logger.Error("failed to prune login history", "error", err)
		return
	}

	s.Logger.Info("housekeeping cleanup completed", "deleted_login_events", n, "cutoff", cutoff)
}

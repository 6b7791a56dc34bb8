package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/store"
)

// HousekeepingService periodically removes expired sessions and invites
// and sweeps the brief cache.
type HousekeepingService struct {
	Store    store.Store
	Briefs   *BriefCache
	Logger   *slog.Logger
	Interval time.Duration
	Clock    Clock

	stopCh chan struct{}
	doneCh chan struct{}
}

// CleanupResult counts what one pass removed.
type CleanupResult struct {
	Sessions int64
	Invites  int64
	Briefs   int
}

// NewHousekeepingService creates a housekeeping service. A non-positive
// interval defaults to one hour.
func NewHousekeepingService(st store.Store, briefs *BriefCache, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Store:    st,
		Briefs:   briefs,
		Logger:   logger,
		Interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start runs the worker in the background. Call Stop to end it.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop blocks until an in-progress pass has finished.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	s.RunOnce(context.Background())

	for {
		select {
		case <-ticker.C:
			s.RunOnce(context.Background())
		case <-s.stopCh:
			return
		}
	}
}

// RunOnce performs one cleanup pass. Each step is independent; a failure
// is logged and the others still run.
func (s *HousekeepingService) RunOnce(ctx context.Context) CleanupResult {
	now := s.Clock.now()
	var res CleanupResult

	if n, err := s.Store.Sessions().DeleteExpiredSessions(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
	} else {
		res.Sessions = n
	}

	if n, err := s.Store.Invites().DeleteExpiredInvites(ctx, now); err != nil {
		s.Logger.Error("failed to delete expired invites", "error", err)
	} else {
		res.Invites = n
	}

	if s.Briefs != nil {
		res.Briefs = s.Briefs.Sweep(now)
	}

	s.Logger.Info("housekeeping cleanup completed",
		"sessions", res.Sessions,
		"invites", res.Invites,
		"briefs", res.Briefs,
	)
	return res
}

package scheduler

import (
	"context"
	"log/slog"
	"time"

	"sub_notifier/internal/domain"
)

// Notifier runs one fetch→filter→dispatch cycle.
type Notifier interface {
	Notify(ctx context.Context) (*domain.CycleStats, error)
}

type Scheduler struct {
	notifier     Notifier
	interval     time.Duration
	cycleTimeout time.Duration
	logger       *slog.Logger
}

func New(notifier Notifier, interval, cycleTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		notifier:     notifier,
		interval:     interval,
		cycleTimeout: cycleTimeout,
		logger:       logger,
	}
}

// Start runs the first cycle immediately, then one per tick until ctx is
// cancelled. Ticker ticks are spaced from the previous tick and dropped when
// a cycle overruns, so dispatch latency neither accumulates drift nor causes
// a burst of back-to-back cycles.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runCycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle never lets a cycle error escape: steady-state failures are logged
// and the next tick proceeds.
func (s *Scheduler) runCycle(ctx context.Context) {
	cycleCtx, cancel := context.WithTimeout(ctx, s.cycleTimeout)
	defer cancel()

	if _, err := s.notifier.Notify(cycleCtx); err != nil {
		s.logger.Error("cycle failed", "error", err)
	}
}

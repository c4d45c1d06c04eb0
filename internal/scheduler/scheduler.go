// Package scheduler drives automatic wallpaper replacement inside the
// long-running process.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/genricoloni/muro/internal/domain"
	"github.com/genricoloni/muro/internal/manager"
	"github.com/genricoloni/muro/internal/store"
	"go.uber.org/zap"
)

// tickPeriod is the fixed wake-up interval. The tick itself is cheap; it
// only compares the clock to the stored next-run timestamp.
const tickPeriod = 60 * time.Second

// Scheduler wakes on a fixed tick and runs the same fetch-apply-prune-
// persist cycle as the manual `new` command when the stored next-run
// time is due. It never terminates the process: every failure is logged
// and the loop keeps ticking.
type Scheduler struct {
	logger  *zap.Logger
	store   *store.Store
	manager *manager.Manager
	tick    time.Duration
	now     func() time.Time
}

// New creates a scheduler with the standard 60s tick
func New(logger *zap.Logger, st *store.Store, mgr *manager.Manager) *Scheduler {
	return &Scheduler{
		logger:  logger,
		store:   st,
		manager: mgr,
		tick:    tickPeriod,
		now:     time.Now,
	}
}

// Start marks the daemon as running in the persisted state
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.store.Update(func(doc *domain.Document) error {
		doc.State.IsRunning = true
		return nil
	})
	return err
}

// Stop marks the daemon as stopped
func (s *Scheduler) Stop(ctx context.Context) error {
	_, err := s.store.Update(func(doc *domain.Document) error {
		doc.State.IsRunning = false
		return nil
	})
	return err
}

// Run is the perpetual tick loop. It returns when ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("Scheduler started", zap.Duration("tick", s.tick))

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			s.tickOnce(ctx)
		}
	}
}

// tickOnce checks the stored schedule and runs one cycle when due.
// A transient failure leaves next_run_at unchanged, so the following
// tick retries at the same due time instead of drifting forward.
func (s *Scheduler) tickOnce(ctx context.Context) {
	doc, err := s.store.Load()
	if err != nil {
		// Corrupt document or lock contention: skip this tick, the
		// loop stays alive
		s.logger.Error("Scheduler could not load state", zap.Error(err))
		return
	}

	if doc.Config.AccessKey == "" {
		return
	}

	if doc.Config.IntervalMinutes <= 0 {
		// Auto-cycling disabled. Keep ticking so a live config change
		// is picked up, and drop any stale schedule.
		if doc.State.NextRunAt != nil {
			if _, err := s.store.Update(func(d *domain.Document) error {
				d.State.NextRunAt = nil
				return nil
			}); err != nil {
				s.logger.Warn("Failed to clear stale schedule", zap.Error(err))
			}
		}
		return
	}

	now := s.now()
	if doc.State.NextRunAt == nil {
		// Cycling just got enabled: plan the first automatic run one
		// interval from now rather than firing immediately
		next := now.Add(time.Duration(doc.Config.IntervalMinutes) * time.Minute)
		if _, err := s.store.Update(func(d *domain.Document) error {
			if d.Config.IntervalMinutes > 0 && d.State.NextRunAt == nil {
				d.State.NextRunAt = &next
			}
			return nil
		}); err != nil {
			s.logger.Warn("Failed to plan next run", zap.Error(err))
		}
		return
	}

	if !due(doc, now) {
		return
	}

	s.logger.Info("Scheduled wallpaper change due",
		zap.Time("next_run_at", *doc.State.NextRunAt))

	if _, err := s.manager.ForceNew(ctx); err != nil {
		if errors.Is(err, manager.ErrApplyFailed) {
			// History and schedule advanced; only the desktop refused
			s.logger.Warn("Scheduled change applied with errors", zap.Error(err))
			return
		}
		s.logger.Error("Scheduled wallpaper change failed", zap.Error(err))
	}
}

// due reports whether the stored schedule calls for a run at now
func due(doc *domain.Document, now time.Time) bool {
	if doc.Config.IntervalMinutes <= 0 || doc.State.NextRunAt == nil {
		return false
	}
	return !now.Before(*doc.State.NextRunAt)
}

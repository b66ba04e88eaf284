// Package scheduler runs the reconciliation sweep on a fixed interval
// so missing orders surface without anyone calling the API.
package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/platefull/weekplan/internal/calendar"
	"github.com/platefull/weekplan/internal/clock"
	reconcileservice "github.com/platefull/weekplan/internal/reconcile/service"
)

var ErrInvalidConfig = errors.New("scheduler: missing dependency")

type Params struct {
	fx.In

	Log        *zap.Logger
	Reconciler *reconcileservice.Reconciler
	Clock      clock.Clock
	Config     Config `optional:"true"`
}

type Scheduler struct {
	log        *zap.Logger
	cfg        Config
	reconciler *reconcileservice.Reconciler
	clock      clock.Clock
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Reconciler == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:        p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:        p.Config.withDefaults(),
		reconciler: p.Reconciler,
		clock:      p.Clock,
	}, nil
}

// RunOnce sweeps the current week, and the previous one when
// configured. Errors are logged and swallowed so one bad sweep never
// stops the loop.
func (s *Scheduler) RunOnce(ctx context.Context) {
	now := s.clock.Now()
	weeks := []time.Time{calendar.WeekStart(now)}
	if s.cfg.CheckPreviousWeek {
		weeks = append(weeks, calendar.WeekStart(now).AddDate(0, 0, -7))
	}

	for _, ws := range weeks {
		if err := s.sweepWeek(ctx, ws); err != nil {
			s.log.Error("sweep failed", zap.Time("week_start", ws), zap.Error(err))
		}
	}
}

func (s *Scheduler) sweepWeek(ctx context.Context, weekStart time.Time) error {
	if s.cfg.AutoBackfill {
		result, err := s.reconciler.BackfillMissing(ctx, weekStart)
		if err != nil {
			return err
		}
		if result.Created > 0 || len(result.Failed) > 0 {
			s.log.Warn("sweep backfilled orders",
				zap.Time("week_start", weekStart),
				zap.Int("created", result.Created),
				zap.Int("failed", len(result.Failed)),
			)
		}
		return nil
	}

	report, err := s.reconciler.CheckWeek(ctx, weekStart)
	if err != nil {
		return err
	}
	if len(report.Missing) > 0 {
		s.log.Warn("sweep found missing orders",
			zap.Time("week_start", weekStart),
			zap.Int("missing", len(report.Missing)),
		)
	}
	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	s.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Task is one unit of periodic work, such as draining a spool directory.
type Task interface {
	Name() string
	RunOnce(ctx context.Context) error
}

// Scheduler owns the main loop: ticks on an interval and runs each task sequentially.
type Scheduler struct {
	tasks    []Task
	interval time.Duration
	gap      time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs all tasks at the given interval,
// pausing gap between consecutive tasks of one cycle.
func NewScheduler(tasks []Task, interval, gap time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		tasks:    tasks,
		interval: interval,
		gap:      gap,
		logger:   logger,
	}
}

// Run starts the loop. It runs one immediate cycle, then waits interval
// between cycles. It returns nil when ctx is cancelled (graceful shutdown).
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("starting scheduler",
		"interval", s.interval.String(),
		"tasks", len(s.tasks),
	)

	s.runAll(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down scheduler")
			return nil
		case <-time.After(s.interval):
			s.runAll(ctx)
		}
	}
}

// runAll runs each task in order. A failing task is logged and the cycle continues.
func (s *Scheduler) runAll(ctx context.Context) {
	for i, t := range s.tasks {
		if ctx.Err() != nil {
			return
		}

		if err := t.RunOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("task failed",
				"task", t.Name(),
				"error", err,
			)
		}

		if s.gap > 0 && i < len(s.tasks)-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.gap):
			}
		}
	}
}

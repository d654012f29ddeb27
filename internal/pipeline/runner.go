package pipeline

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/amishk599/jobledger/internal/linkedin"
	"github.com/amishk599/jobledger/internal/model"
)

// BatchStats summarizes one Runner.Run call.
type BatchStats struct {
	RunID      string
	Received   int // records handed in
	Duplicates int // dropped because an earlier record had the same identity
	Pending    int // accepted but not finished (non-zero only after cancellation)
	Completed  int
	Failed     int
	Inserted   int // completed records that were new identities
}

// Runner processes a batch of records concurrently. Records are independent:
// one failure never stops the others.
type Runner struct {
	pipeline *Pipeline
	notifier model.Notifier
	workers  int
	logger   *slog.Logger
}

// NewRunner creates a Runner with at most workers records in flight.
// notifier may be nil.
func NewRunner(p *Pipeline, notifier model.Notifier, workers int, logger *slog.Logger) *Runner {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{pipeline: p, notifier: notifier, workers: workers, logger: logger}
}

// Run processes raws and returns the stored records in input order.
// The only error is the context's, when the batch was cut short.
func (r *Runner) Run(ctx context.Context, raws []model.RawJob) (BatchStats, []model.StoredRecord, error) {
	start := time.Now()
	stats := BatchStats{RunID: uuid.NewString(), Received: len(raws)}
	logger := r.logger.With("run_id", stats.RunID)

	batch := Dedupe(raws)
	stats.Duplicates = len(raws) - len(batch)

	var completed, failed, inserted atomic.Int64
	results := make([]model.StoredRecord, len(batch))

	var g errgroup.Group
	g.SetLimit(r.workers)
	for i, raw := range batch {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			stored, err := r.pipeline.Process(ctx, raw)
			if err != nil {
				failed.Add(1)
				logger.Error("record failed", "linkedin_url", raw.LinkedInURL, "error", err)
				return nil
			}
			completed.Add(1)
			if stored.Result.Inserted {
				inserted.Add(1)
			}
			results[i] = stored
			return nil
		})
	}
	_ = g.Wait()

	stats.Completed = int(completed.Load())
	stats.Failed = int(failed.Load())
	stats.Inserted = int(inserted.Load())
	stats.Pending = len(batch) - stats.Completed - stats.Failed

	stored := make([]model.StoredRecord, 0, stats.Completed)
	for _, s := range results {
		if s.Record != nil {
			stored = append(stored, s)
		}
	}

	if r.notifier != nil && len(stored) > 0 {
		if err := r.notifier.Notify(stored); err != nil {
			logger.Warn("notification failed", "error", err)
		}
	}

	logger.Info("batch finished",
		"received", stats.Received,
		"duplicates", stats.Duplicates,
		"completed", stats.Completed,
		"failed", stats.Failed,
		"inserted", stats.Inserted,
		"pending", stats.Pending,
		"duration", time.Since(start),
	)
	return stats, stored, ctx.Err()
}

// Dedupe drops records whose identity already appeared earlier in raws,
// preserving order. Records whose URL cannot be canonicalised are kept so
// the pipeline reports them.
func Dedupe(raws []model.RawJob) []model.RawJob {
	seen := make(map[string]bool, len(raws))
	out := make([]model.RawJob, 0, len(raws))
	for _, raw := range raws {
		key, err := linkedin.CanonicalURL(raw.LinkedInURL)
		if err != nil || key == "" {
			out = append(out, raw)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, raw)
	}
	return out
}

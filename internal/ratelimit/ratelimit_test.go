package ratelimit

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amishk599/jobledger/internal/model"
)

type countingExtractor struct {
	calls atomic.Int32
}

func (c *countingExtractor) ExtractSkills(_ context.Context, _ string) model.SkillsOutcome {
	c.calls.Add(1)
	return model.Extracted([]string{"Go"})
}

func TestExtract_EnforcesRate(t *testing.T) {
	inner := &countingExtractor{}
	e := NewRateLimitedExtractor(inner, 10, 1, 0) // one call every 100ms
	ctx := context.Background()

	// First call consumes the burst token immediately.
	if out := e.ExtractSkills(ctx, "desc"); out.Status != model.SkillsExtracted {
		t.Fatalf("first call: %+v", out)
	}

	start := time.Now()
	if out := e.ExtractSkills(ctx, "desc"); out.Status != model.SkillsExtracted {
		t.Fatalf("second call: %+v", out)
	}
	elapsed := time.Since(start)

	// Should have waited at least ~100ms (allow 80ms for timer jitter).
	if elapsed < 80*time.Millisecond {
		t.Errorf("expected >= 80ms wait, got %v", elapsed)
	}
	if inner.calls.Load() != 2 {
		t.Errorf("inner called %d times, want 2", inner.calls.Load())
	}
}

func TestExtract_Unlimited(t *testing.T) {
	inner := &countingExtractor{}
	e := NewRateLimitedExtractor(inner, 0, 0, 0)

	start := time.Now()
	for range 5 {
		e.ExtractSkills(context.Background(), "desc")
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("expected near-instant calls, got %v", elapsed)
	}
}

func TestExtract_ContextCancellation(t *testing.T) {
	inner := &countingExtractor{}
	e := NewRateLimitedExtractor(inner, 0.2, 1, 0) // one call every 5s
	ctx := context.Background()

	// First call to drain the bucket.
	e.ExtractSkills(ctx, "desc")

	ctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()

	out := e.ExtractSkills(ctx, "desc")
	if out.Status != model.SkillsUnavailable || out.Err == nil {
		t.Fatalf("expected unavailable outcome, got %+v", out)
	}
	if inner.calls.Load() != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls.Load())
	}
}

// deadlineExtractor records the deadline it was called under.
type deadlineExtractor struct {
	deadline time.Time
	ok       bool
}

func (d *deadlineExtractor) ExtractSkills(ctx context.Context, _ string) model.SkillsOutcome {
	d.deadline, d.ok = ctx.Deadline()
	return model.Extracted([]string{"Go"})
}

func TestExtract_BudgetCoversWaitAndCall(t *testing.T) {
	inner := &deadlineExtractor{}
	e := NewRateLimitedExtractor(inner, 10, 1, 500*time.Millisecond)
	ctx := context.Background()

	e.ExtractSkills(ctx, "desc")
	start := time.Now()
	if out := e.ExtractSkills(ctx, "desc"); out.Status != model.SkillsExtracted {
		t.Fatalf("second call: %+v", out)
	}
	if !inner.ok {
		t.Fatal("inner called without a deadline")
	}
	// The ~100ms token wait is taken out of the budget, not added to it.
	if limit := start.Add(550 * time.Millisecond); inner.deadline.After(limit) {
		t.Errorf("deadline %v is past the budget end %v", inner.deadline, limit)
	}
}

func TestExtract_WaitLongerThanBudgetIsUnavailable(t *testing.T) {
	inner := &countingExtractor{}
	e := NewRateLimitedExtractor(inner, 0.2, 1, 50*time.Millisecond) // one call every 5s
	ctx := context.Background()

	e.ExtractSkills(ctx, "desc")
	start := time.Now()
	out := e.ExtractSkills(ctx, "desc")
	if out.Status != model.SkillsUnavailable {
		t.Fatalf("expected unavailable outcome, got %+v", out)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("wait ran %v past a 50ms budget", elapsed)
	}
	if inner.calls.Load() != 1 {
		t.Errorf("inner called %d times, want 1", inner.calls.Load())
	}
}

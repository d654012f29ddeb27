package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/amishk599/jobledger/internal/model"
)

// Ensure RateLimitedExtractor implements model.SkillExtractor.
var _ model.SkillExtractor = (*RateLimitedExtractor)(nil)

// RateLimitedExtractor is a decorator that spaces out calls to the skill
// service before delegating to the wrapped SkillExtractor. All workers share
// one instance so the limit applies to the whole process.
type RateLimitedExtractor struct {
	inner   model.SkillExtractor
	limiter *rate.Limiter
	budget  time.Duration
}

// NewRateLimitedExtractor allows reqPerSec calls per second with the given burst.
// A non-positive reqPerSec disables limiting. A positive budget bounds the
// wait and the delegated call together; zero leaves them to the caller's context.
func NewRateLimitedExtractor(inner model.SkillExtractor, reqPerSec float64, burst int, budget time.Duration) *RateLimitedExtractor {
	limit := rate.Limit(reqPerSec)
	if reqPerSec <= 0 {
		limit = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedExtractor{inner: inner, limiter: rate.NewLimiter(limit, burst), budget: budget}
}

// ExtractSkills waits for a token, then delegates under whatever is left of
// the budget. A wait cut short by the context reports the fallback as unavailable.
func (e *RateLimitedExtractor) ExtractSkills(ctx context.Context, description string) model.SkillsOutcome {
	if e.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.budget)
		defer cancel()
	}
	if err := e.limiter.Wait(ctx); err != nil {
		return model.Unavailable(fmt.Errorf("skill rate limiter wait: %w", err))
	}
	return e.inner.ExtractSkills(ctx, description)
}

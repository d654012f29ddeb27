package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/amishk599/jobledger/internal/model"
)

// Ensure RetryStore implements model.JobStore.
var _ model.JobStore = (*RetryStore)(nil)

// RetryStore is a decorator that retries upserts which failed because the
// store was unavailable, with exponential backoff and jitter. Reads pass
// through unchanged.
type RetryStore struct {
	inner      model.JobStore
	maxRetries int
	baseDelay  time.Duration
	logger     *slog.Logger
}

// NewRetryStore wraps a JobStore with retry logic.
// maxRetries is the number of additional attempts after the first failure.
// baseDelay is the delay before the first retry, doubled on each subsequent retry.
func NewRetryStore(inner model.JobStore, maxRetries int, baseDelay time.Duration, logger *slog.Logger) *RetryStore {
	return &RetryStore{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
		logger:     logger,
	}
}

// Upsert attempts the write, retrying on store unavailability.
func (s *RetryStore) Upsert(ctx context.Context, rec *model.JobRecord) (model.UpsertResult, error) {
	res, err := s.inner.Upsert(ctx, rec)
	if err == nil || !IsRetryable(err) {
		return res, err
	}

	lastErr := err
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		delay := s.backoffDelay(attempt)

		s.logger.Warn("retrying upsert after store error",
			"linkedin_url", rec.LinkedInURL,
			"attempt", attempt,
			"max_retries", s.maxRetries,
			"delay", delay,
			"error", lastErr,
		)

		select {
		case <-ctx.Done():
			return model.UpsertResult{}, fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		res, err = s.inner.Upsert(ctx, rec)
		if err == nil || !IsRetryable(err) {
			return res, err
		}
		lastErr = err
	}

	return model.UpsertResult{}, lastErr
}

func (s *RetryStore) Get(ctx context.Context, linkedinURL string) (*model.JobRecord, error) {
	return s.inner.Get(ctx, linkedinURL)
}

func (s *RetryStore) List(ctx context.Context, q model.ListQuery) ([]model.JobRecord, error) {
	return s.inner.List(ctx, q)
}

func (s *RetryStore) Close() error {
	return s.inner.Close()
}

// backoffDelay computes the delay for a given attempt with ±30% jitter.
func (s *RetryStore) backoffDelay(attempt int) time.Duration {
	// Exponential: baseDelay * 2^(attempt-1)
	delay := s.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}

	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// IsRetryable returns true if err reports a store outage worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	// Context cancellation is never retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, model.ErrInvalidInput) {
		return false
	}

	var storeErr *model.StoreError
	return errors.As(err, &storeErr)
}

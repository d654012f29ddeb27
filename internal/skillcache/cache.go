// Package skillcache remembers answers of the skill fallback keyed by the
// description they were asked for, so repeated observations of a posting do
// not call the service again.
package skillcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"

	"github.com/amishk599/jobledger/internal/model"
)

// Cache stores skill lists by key. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]string, bool, error)
	Set(ctx context.Context, key string, skills []string) error
}

// Key derives the cache key for a description.
func Key(description string) string {
	sum := sha256.Sum256([]byte(description))
	return hex.EncodeToString(sum[:])
}

// Ensure CachedExtractor implements model.SkillExtractor.
var _ model.SkillExtractor = (*CachedExtractor)(nil)

// CachedExtractor is a decorator that answers from the cache when it can.
// Only SkillsExtracted outcomes are stored; an unavailable answer is asked
// again next time. Cache failures are logged and never change the outcome.
type CachedExtractor struct {
	inner  model.SkillExtractor
	cache  Cache
	logger *slog.Logger
}

// NewCachedExtractor wraps inner with cache.
func NewCachedExtractor(inner model.SkillExtractor, cache Cache, logger *slog.Logger) *CachedExtractor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CachedExtractor{inner: inner, cache: cache, logger: logger}
}

func (c *CachedExtractor) ExtractSkills(ctx context.Context, description string) model.SkillsOutcome {
	key := Key(description)

	skills, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("skill cache read failed", "error", err)
	} else if ok {
		c.logger.Debug("skill cache hit", "key", key[:12])
		return model.Extracted(skills)
	}

	out := c.inner.ExtractSkills(ctx, description)
	if out.Status != model.SkillsExtracted {
		return out
	}
	if err := c.cache.Set(ctx, key, out.Skills); err != nil {
		c.logger.Warn("skill cache write failed", "error", err)
	}
	return out
}

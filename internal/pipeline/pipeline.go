// Package pipeline turns raw observations into stored job records.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/amishk599/jobledger/internal/currency"
	"github.com/amishk599/jobledger/internal/extract"
	"github.com/amishk599/jobledger/internal/htmltext"
	"github.com/amishk599/jobledger/internal/linkedin"
	"github.com/amishk599/jobledger/internal/model"
	"github.com/amishk599/jobledger/internal/normalize"
)

// Options tunes a Pipeline.
type Options struct {
	// DeterministicSkills enables dictionary skill matching before the fallback.
	DeterministicSkills bool
}

// Pipeline owns the per-record flow:
// extract → normalize → currency → skills fallback → upsert.
type Pipeline struct {
	store      model.JobStore
	skills     model.SkillExtractor
	normalizer *normalize.Normalizer
	validate   *validator.Validate
	opts       Options
	now        func() time.Time
	logger     *slog.Logger
}

// New creates a pipeline wired with all its dependencies.
func New(
	store model.JobStore,
	skills model.SkillExtractor,
	normalizer *normalize.Normalizer,
	opts Options,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Pipeline{
		store:      store,
		skills:     skills,
		normalizer: normalizer,
		validate:   validator.New(),
		opts:       opts,
		now:        time.Now,
		logger:     logger,
	}
}

// Enrich builds the full record for raw without writing it. Only invalid
// input is reported as an error; every other shortfall leaves a field unset.
func (p *Pipeline) Enrich(ctx context.Context, raw model.RawJob) (*model.JobRecord, error) {
	if err := p.validate.Struct(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	identity, err := linkedin.CanonicalURL(raw.LinkedInURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}

	rec := model.NewJobRecord(raw)
	rec.LinkedInURL = identity
	if rec.ScrapedAt == nil {
		now := p.now().UTC()
		rec.ScrapedAt = &now
	}

	if text, err := htmltext.ToText(rec.JobDescription); err != nil {
		p.logger.Warn("description markup not converted", "linkedin_url", identity, "error", err)
	} else {
		rec.JobDescription = text
	}

	skillsSource := "input"
	if len(rec.RequiredSkills) > 0 {
		rec.RequiredSkills = extract.SortedUnique(rec.RequiredSkills)
	}
	catalogSkills := p.opts.DeterministicSkills && len(rec.RequiredSkills) == 0

	fields := extract.Extract(rec.JobDescription, extract.Options{Skills: catalogSkills})
	fields.Apply(rec)
	if catalogSkills && len(rec.RequiredSkills) > 0 {
		skillsSource = "catalog"
	}

	p.normalizer.Normalize(rec)

	stage := currency.Resolve(rec)

	if len(rec.RequiredSkills) == 0 {
		out := p.skills.ExtractSkills(ctx, rec.JobDescription)
		switch out.Status {
		case model.SkillsExtracted:
			rec.RequiredSkills = out.Skills
			skillsSource = "fallback"
		default:
			rec.RequiredSkills = nil
			skillsSource = "unavailable"
		}
	}

	p.logger.Debug("record enriched",
		"linkedin_url", identity,
		"currency_stage", stage,
		"skills", skillsSource,
		"seniority", rec.SeniorityLevel,
		"city", rec.City,
	)
	return rec, nil
}

// Process enriches raw and upserts the result. A context cancelled before
// the write aborts without touching the store.
func (p *Pipeline) Process(ctx context.Context, raw model.RawJob) (model.StoredRecord, error) {
	start := time.Now()

	rec, err := p.Enrich(ctx, raw)
	if err != nil {
		return model.StoredRecord{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.StoredRecord{}, fmt.Errorf("processing %s: %w", rec.LinkedInURL, err)
	}

	res, err := p.store.Upsert(ctx, rec)
	if err != nil {
		return model.StoredRecord{}, fmt.Errorf("processing %s: %w", rec.LinkedInURL, err)
	}

	p.logger.Info("record stored",
		"linkedin_url", rec.LinkedInURL,
		"inserted", res.Inserted,
		"observations", res.Observations,
		"duration", time.Since(start),
	)
	return model.StoredRecord{Record: rec, Result: res}, nil
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/template"
	"time"

	"github.com/amishk599/jobledger/internal/extract"
	"github.com/amishk599/jobledger/internal/model"
)

// Defaults for the skill fallback.
const (
	DefaultTimeout       = 30 * time.Second
	DefaultMaxInputChars = 12_000
	DefaultMaxSkills     = 12
)

// Ensure LLMSkillExtractor implements model.SkillExtractor.
var _ model.SkillExtractor = (*LLMSkillExtractor)(nil)

// LLMSkillExtractor implements model.SkillExtractor using an LLM.
type LLMSkillExtractor struct {
	provider      LLMProvider
	instruction   string
	timeout       time.Duration
	maxInputChars int
	maxSkills     int
	logger        *slog.Logger
}

// Options tunes an LLMSkillExtractor. Zero values fall back to the defaults.
type Options struct {
	Timeout       time.Duration
	MaxInputChars int
	MaxSkills     int
}

// NewLLMSkillExtractor renders tmpl once and returns an extractor that sends it
// alongside every description.
func NewLLMSkillExtractor(provider LLMProvider, tmpl *template.Template, opts Options, logger *slog.Logger) (*LLMSkillExtractor, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = DefaultMaxInputChars
	}
	if opts.MaxSkills <= 0 {
		opts.MaxSkills = DefaultMaxSkills
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ MaxSkills int }{MaxSkills: opts.MaxSkills}); err != nil {
		return nil, fmt.Errorf("render skills prompt: %w", err)
	}

	return &LLMSkillExtractor{
		provider:      provider,
		instruction:   strings.TrimSpace(buf.String()),
		timeout:       opts.Timeout,
		maxInputChars: opts.MaxInputChars,
		maxSkills:     opts.MaxSkills,
		logger:        logger,
	}, nil
}

// ExtractSkills asks the provider for the required skills of description under
// a hard timeout. It never retries; any failure degrades to SkillsUnavailable
// and is logged.
func (e *LLMSkillExtractor) ExtractSkills(ctx context.Context, description string) model.SkillsOutcome {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()
	raw, err := e.provider.Complete(ctx, e.instruction, truncate(description, e.maxInputChars))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("skills request timed out after %v: %w", e.timeout, err)
		}
		e.logger.Warn("skill extraction unavailable", "error", err, "duration", time.Since(start))
		return model.Unavailable(err)
	}

	skills, err := parseSkills(raw)
	if err != nil {
		e.logger.Warn("skill extraction unavailable", "error", err, "duration", time.Since(start))
		return model.Unavailable(err)
	}

	skills = extract.SortedUnique(skills)
	if len(skills) > e.maxSkills {
		skills = skills[:e.maxSkills]
	}

	e.logger.Debug("skills extracted", "count", len(skills), "duration", time.Since(start))
	return model.Extracted(skills)
}

// rawSkills is the JSON shape returned by the LLM (matches the structured output schema).
type rawSkills struct {
	RequiredSkills []string `json:"required_skills" jsonschema_description:"Required skills named in the job description, one concept each"`
}

// parseSkills decodes the LLM answer. A missing required_skills key is an
// error; an empty list is not.
func parseSkills(raw string) ([]string, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleanJSONBlock(raw)), &probe); err != nil {
		return nil, fmt.Errorf("unmarshal skills JSON: %w", err)
	}
	list, ok := probe["required_skills"]
	if !ok {
		return nil, errors.New("skills JSON has no required_skills field")
	}

	var skills []string
	if err := json.Unmarshal(list, &skills); err != nil {
		return nil, fmt.Errorf("unmarshal required_skills: %w", err)
	}
	if skills == nil {
		skills = []string{}
	}
	return skills, nil
}

// cleanJSONBlock removes markdown code fences some models wrap JSON in.
func cleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	if i := strings.LastIndex(text, "```"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

// truncate keeps the first n runes of s.
func truncate(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

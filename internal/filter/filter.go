package filter

import (
	"strings"

	"github.com/amishk599/jobledger/internal/config"
	"github.com/amishk599/jobledger/internal/model"
)

// Ensure RecordFilter implements model.RecordFilter.
var _ model.RecordFilter = (*RecordFilter)(nil)

// RecordFilter matches stored records on title keywords and on the enriched
// city, workplace type and seniority fields. Matching is case-insensitive.
// Empty lists are treated as "match all".
type RecordFilter struct {
	titleKeywords        []string
	titleExcludeKeywords []string
	cities               []string
	workplaceTypes       []string
	seniorityLevels      []string
}

// New returns a filter built from the filters config section.
func New(cfg config.FilterConfig) *RecordFilter {
	return &RecordFilter{
		titleKeywords:        lowerAll(cfg.TitleKeywords),
		titleExcludeKeywords: lowerAll(cfg.TitleExcludeKeywords),
		cities:               lowerAll(cfg.Cities),
		workplaceTypes:       lowerAll(cfg.WorkplaceTypes),
		seniorityLevels:      lowerAll(cfg.SeniorityLevels),
	}
}

// Match returns true if the record's title contains any title keyword and no
// exclude keyword, and its city, workplace type and seniority are among the
// configured values. A record missing a constrained field does not match.
func (f *RecordFilter) Match(rec model.JobRecord) bool {
	title := strings.ToLower(rec.JobTitle)

	if len(f.titleKeywords) > 0 && !containsAny(title, f.titleKeywords) {
		return false
	}
	if containsAny(title, f.titleExcludeKeywords) {
		return false
	}

	if !oneOf(rec.City, f.cities) {
		return false
	}
	if !oneOf(rec.WorkplaceType, f.workplaceTypes) {
		return false
	}
	return oneOf(rec.SeniorityLevel, f.seniorityLevels)
}

// Apply returns the records that match, preserving order.
func (f *RecordFilter) Apply(recs []model.JobRecord) []model.JobRecord {
	var out []model.JobRecord
	for _, r := range recs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

func oneOf(value string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}
	value = strings.ToLower(value)
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

func lowerAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

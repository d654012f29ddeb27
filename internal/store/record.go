// Package store persists job records keyed by their LinkedIn URL.
//
// Every backend follows the same merge rule: fields present on the incoming
// record overwrite the stored ones, absent fields keep what is stored, and
// scraped_at is written only when the identity is first inserted.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/amishk599/jobledger/internal/model"
)

// DefaultListLimit caps List when the query sets no limit.
const DefaultListLimit = 100

// timeLayout is fixed-width so stored UTC values sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// firstSeen returns the set-on-insert timestamp for rec.
func firstSeen(rec *model.JobRecord, now time.Time) time.Time {
	if rec.ScrapedAt != nil {
		return rec.ScrapedAt.UTC()
	}
	return now.UTC()
}

func limitOf(q model.ListQuery) int {
	if q.Limit <= 0 {
		return DefaultListLimit
	}
	return q.Limit
}

// nullString maps "" to NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return int64(*p)
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

// nullList encodes a list as JSON text. nil stays NULL so an absent list
// never clears a stored one; an empty list is stored as "[]".
func nullList(values []string) (any, error) {
	if values == nil {
		return nil, nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func parseTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("parse stored time %q: %w", *s, err)
	}
	return &t, nil
}

func parseList(s *string) ([]string, error) {
	if s == nil {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(*s), &out); err != nil {
		return nil, fmt.Errorf("decode stored list: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intPtr(n *int64) *int {
	if n == nil {
		return nil
	}
	v := int(*n)
	return &v
}

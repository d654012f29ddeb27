// Package normalize parses the semi-structured sub-fields of a record and
// derives seniority and posting age from what the extractor already found.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/jobledger/internal/model"
)

// LocationSeparator splits the composite location string.
const LocationSeparator = "·"

var applicantCountPattern = regexp.MustCompile(`\d[\d,]*`)

// Normalizer consumes the raw location of a record into typed fields.
type Normalizer struct {
	dates DateParser
	now   func() time.Time
}

// New returns a Normalizer. now defaults to time.Now when nil.
func New(dates DateParser, now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{dates: dates, now: now}
}

// Normalize mutates rec: city, province, posted date and applicant count come
// from the location string, which is then removed; seniority and posting age
// are derived last. Malformed segments leave only their own field unset.
// Relative posted phrases resolve against the record's ScrapedAt, falling
// back to the normalizer's clock when the record carries none.
func (n *Normalizer) Normalize(rec *model.JobRecord) {
	now := n.now().UTC()
	if rec.ScrapedAt != nil {
		now = rec.ScrapedAt.UTC()
	}

	var postedPhrase string
	if rec.Location != "" {
		parts := SplitLocation(rec.Location)

		if len(parts) >= 1 {
			if city, province, ok := SplitCityProvince(parts[0]); ok {
				rec.City, rec.Province = city, province
			}
		}
		if len(parts) >= 2 {
			postedPhrase = parts[1]
		}
		if len(parts) >= 3 {
			if count, ok := ParseApplicantCount(parts[2]); ok {
				rec.ApplicantCount = &count
			}
		}
	}
	if postedPhrase == "" {
		postedPhrase = rec.PostedDate
	}
	if postedPhrase != "" && n.dates != nil {
		if t, ok := n.dates.Parse(postedPhrase, now); ok {
			t = t.UTC()
			rec.PostedAt = &t
		}
	}

	rec.Location = ""
	rec.PostedDate = ""

	if level, ok := Seniority(rec.JobDescription); ok {
		rec.SeniorityLevel = level
	}

	if days, ok := PostingAgeDays(rec.ScrapedAt, rec.PostedAt); ok {
		rec.PostingAgeDays = &days
	}
}

// SplitLocation splits a composite location into at most three trimmed segments.
func SplitLocation(location string) []string {
	parts := strings.SplitN(location, LocationSeparator, 3)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// SplitCityProvince splits "City, Province" on the first comma.
func SplitCityProvince(segment string) (city, province string, ok bool) {
	city, province, ok = strings.Cut(segment, ",")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(city), strings.TrimSpace(province), true
}

// ParseApplicantCount returns the first integer embedded in segment.
// Thousands separators are accepted: "1,204 applicants" yields 1204.
func ParseApplicantCount(segment string) (int, bool) {
	m := applicantCountPattern.FindString(segment)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m, ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

// PostingAgeDays returns the whole days between posted and scraped, floored
// like a calendar difference. Both timestamps must be present.
func PostingAgeDays(scraped, posted *time.Time) (int, bool) {
	if scraped == nil || posted == nil {
		return 0, false
	}
	d := scraped.Sub(*posted)
	return int(math.Floor(d.Hours() / 24)), true
}

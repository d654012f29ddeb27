// Package currency infers a three-letter currency code for a record from
// explicit mentions, the currency symbol plus geography, or regional wording.
package currency

import (
	"regexp"
	"strings"

	"github.com/amishk599/jobledger/internal/catalog"
	"github.com/amishk599/jobledger/internal/model"
)

// Stage identifies which step of the resolution set the code.
type Stage int

const (
	StageNone     Stage = iota // nothing matched; the code stays absent
	StagePreset                // the record already carried a code
	StageExplicit              // a code was written in the description
	StageSymbol                // symbol combined with geography
	StageRegion                // regional wording alone
)

func (s Stage) String() string {
	switch s {
	case StagePreset:
		return "preset"
	case StageExplicit:
		return "explicit"
	case StageSymbol:
		return "symbol"
	case StageRegion:
		return "region"
	default:
		return "none"
	}
}

var tokenSplitter = regexp.MustCompile(`[·,\s]+`)
var segmentSplitter = regexp.MustCompile(`[·,]+`)

// Resolve sets rec.CurrencyCode using the first stage that succeeds and
// reports that stage. A record that already has a code is left alone.
func Resolve(rec *model.JobRecord) Stage {
	if rec.CurrencyCode != "" {
		return StagePreset
	}

	if code := catalog.CurrencyCodePattern.FindString(rec.JobDescription); code != "" {
		rec.CurrencyCode = code
		return StageExplicit
	}

	tokens := GeographyTokens(rec.Location, rec.City, rec.Province)

	switch strings.TrimSpace(rec.Currency) {
	case "$":
		switch {
		case catalog.CanadianRegions.Intersects(tokens):
			rec.CurrencyCode = "CAD"
			return StageSymbol
		case catalog.USRegions.Intersects(tokens):
			rec.CurrencyCode = "USD"
			return StageSymbol
		}
	case "£":
		rec.CurrencyCode = "GBP"
		return StageSymbol
	}

	if catalog.UKRegions.Intersects(tokens) {
		rec.CurrencyCode = "GBP"
		return StageRegion
	}
	return StageNone
}

// GeographyTokens splits the given place strings into single-word tokens
// (trimmed of " ,.") and also keeps every comma- or middot-separated phrase
// whole, so multi-word names like "British Columbia" can match.
func GeographyTokens(parts ...string) []string {
	blob := strings.Join(parts, " ")
	var tokens []string
	for _, t := range tokenSplitter.Split(blob, -1) {
		if t = strings.Trim(t, " ,."); t != "" {
			tokens = append(tokens, t)
		}
	}
	for _, p := range parts {
		for _, seg := range segmentSplitter.Split(p, -1) {
			if seg = strings.TrimSpace(seg); strings.Contains(seg, " ") || strings.HasSuffix(seg, ".") {
				tokens = append(tokens, seg)
			}
		}
	}
	return tokens
}

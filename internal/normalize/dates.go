package normalize

import (
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"
)

// DateParser turns a natural-language date phrase into an absolute time.
type DateParser interface {
	Parse(phrase string, now time.Time) (time.Time, bool)
}

// NaturalDateParser accepts absolute dates and relative phrases such as
// "3 days ago", "yesterday" or "2 weeks ago".
type NaturalDateParser struct{}

// Lead words LinkedIn prefixes to the relative phrase.
var datePhrasePrefixes = []string{"reposted", "posted"}

// Parse resolves phrase relative to now.
func (NaturalDateParser) Parse(phrase string, now time.Time) (time.Time, bool) {
	phrase = trimDatePrefix(strings.TrimSpace(phrase))
	if phrase == "" {
		return time.Time{}, false
	}

	cfg := &dps.Configuration{CurrentTime: now}
	dt, err := dps.Parse(cfg, phrase)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, false
	}
	return dt.Time, true
}

func trimDatePrefix(phrase string) string {
	low := strings.ToLower(phrase)
	for _, p := range datePhrasePrefixes {
		if low == p {
			return ""
		}
		if strings.HasPrefix(low, p+" ") {
			return strings.TrimSpace(phrase[len(p):])
		}
	}
	return phrase
}

package normalize

import (
	"regexp"

	"github.com/amishk599/jobledger/internal/model"
)

// seniorityRules are tried in order; the first hit wins.
var seniorityRules = []struct {
	pattern *regexp.Regexp
	level   string
}{
	{regexp.MustCompile(`(?i)\bsenior\b|\bsr\.`), model.SenioritySenior},
	{regexp.MustCompile(`(?i)\bmid[- ]?level\b`), model.SeniorityMid},
	{regexp.MustCompile(`(?i)\bjunior|\bentry[- ]?level`), model.SeniorityJunior},
}

// Seniority infers the seniority level from a description.
func Seniority(description string) (string, bool) {
	for _, r := range seniorityRules {
		if r.pattern.MatchString(description) {
			return r.level, true
		}
	}
	return "", false
}

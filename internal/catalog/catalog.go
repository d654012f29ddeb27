// Package catalog holds the static inventories every rule-based extractor
// reads from. All values are built at init and never mutated afterwards.
package catalog

import (
	"regexp"

	"github.com/amishk599/jobledger/internal/model"
)

// Rule maps a pattern to the canonical value it stands for.
type Rule struct {
	Pattern *regexp.Regexp
	Value   string
}

// Match reports whether the rule's pattern occurs in text.
func (r Rule) Match(text string) bool {
	return r.Pattern.MatchString(text)
}

// FirstMatch walks rules in order and returns the value of the first one that
// matches. Precedence is the slice order.
func FirstMatch(rules []Rule, text string) (string, bool) {
	for _, r := range rules {
		if r.Match(text) {
			return r.Value, true
		}
	}
	return "", false
}

// wholeWord compiles a case-insensitive pattern anchored on word boundaries at both ends.
func wholeWord(pat, value string) Rule {
	return Rule{Pattern: regexp.MustCompile(`(?i)\b(?:` + pat + `)\b`), Value: value}
}

// prefix compiles a case-insensitive pattern anchored on a word boundary at the start only,
// so "master" also matches "master's" and "masters".
func prefix(pat, value string) Rule {
	return Rule{Pattern: regexp.MustCompile(`(?i)\b(?:` + pat + `)`), Value: value}
}

// EmploymentTypes is checked in order; the first hit wins.
var EmploymentTypes = []Rule{
	wholeWord(`full[- ]?time`, model.EmploymentFullTime),
	wholeWord(`part[- ]?time`, model.EmploymentPartTime),
	wholeWord(`contract`, model.EmploymentContract),
	wholeWord(`intern(?:ship)?`, model.EmploymentInternship),
	wholeWord(`temporary`, model.EmploymentTemporary),
}

// WorkplaceTypes is checked in order; the first hit wins.
var WorkplaceTypes = []Rule{
	wholeWord(`remote`, model.WorkplaceRemote),
	wholeWord(`hybrid`, model.WorkplaceHybrid),
	wholeWord(`on[- ]?site`, model.WorkplaceOnSite),
}

// DegreeLevels is ordered highest degree first. When several degrees are
// mentioned the first rule in this list wins, not the first one in the text.
var DegreeLevels = []Rule{
	prefix(`phd`, model.DegreePhD),
	prefix(`doctor`, model.DegreePhD),
	prefix(`master`, model.DegreeMaster),
	prefix(`msc`, model.DegreeMaster),
	prefix(`bachelor`, model.DegreeBachelor),
	prefix(`ba `, model.DegreeBachelor),
	prefix(`bs `, model.DegreeBachelor),
	prefix(`bsc`, model.DegreeBachelor),
}

// Benefits lists the benefit phrases recognised in descriptions.
var Benefits = NewKeywordSet(
	"401(k)", "RRSP", "health benefits",
	"dental", "vision", "parental leave",
	"equity", "RSU", "stock options",
	"wellness", "flexible vacation",
	"remote stipend", "learning budget",
)

// Skills is the small vocabulary used by the optional deterministic skill pass.
var Skills = NewKeywordSet(
	"python", "sql", "excel", "bigquery", "data analytics",
	"economic research", "presentation", "scikit-learn",
	"pandas", "spark",
)

// CurrencyCodes are the explicit currency mentions honoured in descriptions.
var CurrencyCodes = []string{"CAD", "USD", "GBP", "EUR", "AUD", "NZD"}

// CurrencyCodePattern finds the leftmost whole-word, upper-case currency code.
var CurrencyCodePattern = regexp.MustCompile(`\b(CAD|USD|GBP|EUR|AUD|NZD)\b`)

package catalog

// RegionSet is a case-sensitive set of place tokens.
type RegionSet map[string]struct{}

func newRegionSet(names ...string) RegionSet {
	s := make(RegionSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Intersects reports whether any token is a member of the set.
func (s RegionSet) Intersects(tokens []string) bool {
	for _, t := range tokens {
		if _, ok := s[t]; ok {
			return true
		}
	}
	return false
}

// CanadianRegions holds province/territory codes and names plus the country.
var CanadianRegions = newRegionSet(
	"AB", "BC", "MB", "NB", "NL", "NT", "NS", "NU", "ON", "PE", "QC", "SK", "YT",
	"Alberta", "British Columbia", "Manitoba", "New Brunswick", "Newfoundland",
	"Nova Scotia", "Ontario", "Prince Edward Island", "Quebec", "Saskatchewan",
	"Yukon", "Northwest Territories", "Nunavut", "Canada",
)

// USRegions holds state codes plus the country's common names.
var USRegions = newRegionSet(
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA", "HI", "ID", "IL", "IN", "IA",
	"KS", "KY", "LA", "ME", "MD", "MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC", "SD", "TN", "TX", "UT", "VT",
	"VA", "WA", "WV", "WI", "WY", "United States", "USA", "US",
)

// UKRegions holds the UK, its constituent countries and their abbreviations.
var UKRegions = newRegionSet(
	"UK", "U.K.", "United Kingdom", "Great Britain", "GB", "GBR",
	"England", "Scotland", "Wales", "Northern Ireland", "NI",
)

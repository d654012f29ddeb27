package catalog

import (
	"slices"
	"testing"
)

func TestFirstMatch_EmploymentTypes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"hyphenated full-time", "This is a Full-Time role.", "full-time", true},
		{"spaced part time", "part time, 20h/week", "part-time", true},
		{"joined fulltime", "FULLTIME position", "full-time", true},
		{"contract", "12 month contract", "contract", true},
		{"contractor is not contract", "hiring a contractor", "", false},
		{"intern", "Summer intern wanted", "internship", true},
		{"internship", "Paid internship", "internship", true},
		{"internal is not intern", "internal tools team", "", false},
		{"first rule wins", "full-time or contract", "full-time", true},
		{"nothing", "We build things.", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstMatch(EmploymentTypes, tt.text)
			if ok != tt.ok || got != tt.want {
				t.Errorf("FirstMatch(%q) = (%q, %v), want (%q, %v)", tt.text, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestFirstMatch_DegreePrefix(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Master's degree preferred", "Master"},
		{"MSc in Statistics", "Master"},
		{"BSc or equivalent", "Bachelor"},
		{"bachelors in CS", "Bachelor"},
		{"PhD candidates welcome", "PhD"},
		{"Bachelor's or Master's", "Master"}, // catalog order, not text order
		{"Doctorate or Master's", "PhD"},
	}
	for _, tt := range tests {
		got, ok := FirstMatch(DegreeLevels, tt.text)
		if !ok || got != tt.want {
			t.Errorf("FirstMatch(%q) = (%q, %v), want %q", tt.text, got, ok, tt.want)
		}
	}
}

func TestFirstMatch_WorkplaceOnSite(t *testing.T) {
	for _, text := range []string{"on-site in Toronto", "Onsite 3 days", "on site"} {
		got, ok := FirstMatch(WorkplaceTypes, text)
		if !ok || got != "on-site" {
			t.Errorf("FirstMatch(%q) = (%q, %v), want on-site", text, got, ok)
		}
	}
}

func TestKeywordSet_Find(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"punctuation inside keyword", "We match your 401(k) contributions.", []string{"401(k)"}},
		{"case insensitive", "DENTAL and Vision", []string{"dental", "vision"}},
		{"order of appearance", "vision, dental, vision", []string{"vision", "dental"}},
		{"multi-word", "Generous parental leave and a learning budget", []string{"parental leave", "learning budget"}},
		{"no partial words", "individual television", nil},
		{"adjacent keywords", "dental vision equity", []string{"dental", "vision", "equity"}},
		{"keyword at end", "perks include RSU", []string{"RSU"}},
		{"empty text", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Benefits.Find(tt.text)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Find(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestKeywordSet_FindTiesKeepCatalogOrder(t *testing.T) {
	ks := NewKeywordSet("remote work", "remote", "work", "Go")
	got := ks.Find("Go is fine, remote work preferred")
	want := []string{"Go", "remote work", "remote", "work"}
	if !slices.Equal(got, want) {
		t.Errorf("Find = %v, want %v", got, want)
	}
}

func TestNewKeywordSet_DropsDuplicatesAndBlanks(t *testing.T) {
	ks := NewKeywordSet("Go", "go", " ", "Rust")
	if ks.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ks.Len())
	}
}

func TestRegionSet_Intersects(t *testing.T) {
	if !CanadianRegions.Intersects([]string{"Toronto", "ON"}) {
		t.Error("expected ON to be a Canadian region")
	}
	if CanadianRegions.Intersects([]string{"on"}) {
		t.Error("region membership must be case-sensitive")
	}
	if !USRegions.Intersects([]string{"United States"}) {
		t.Error("expected United States to be a US region")
	}
	if UKRegions.Intersects(nil) {
		t.Error("nil tokens must not intersect")
	}
}

func TestCurrencyCodePattern_WholeWordUpperCase(t *testing.T) {
	if got := CurrencyCodePattern.FindString("Salary: 90,000 CAD per year"); got != "CAD" {
		t.Errorf("FindString = %q, want CAD", got)
	}
	if got := CurrencyCodePattern.FindString("ABCADEF usd"); got != "" {
		t.Errorf("FindString = %q, want no match", got)
	}
	if len(CurrencyCodes) != 6 {
		t.Errorf("CurrencyCodes len = %d, want 6", len(CurrencyCodes))
	}
}

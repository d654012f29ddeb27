package normalize

import (
	"testing"
	"time"
)

func TestNaturalDateParser_RelativePhrases(t *testing.T) {
	p := NaturalDateParser{}
	tests := []struct {
		phrase string
		want   time.Time
	}{
		{"3 days ago", fixedNow.AddDate(0, 0, -3)},
		{"Reposted 2 weeks ago", fixedNow.AddDate(0, 0, -14)},
		{"posted 1 day ago", fixedNow.AddDate(0, 0, -1)},
	}
	for _, tt := range tests {
		got, ok := p.Parse(tt.phrase, fixedNow)
		if !ok {
			t.Errorf("Parse(%q) failed", tt.phrase)
			continue
		}
		if got.Format("2006-01-02") != tt.want.Format("2006-01-02") {
			t.Errorf("Parse(%q) = %v, want day %v", tt.phrase, got, tt.want.Format("2006-01-02"))
		}
	}
}

func TestNaturalDateParser_Unparseable(t *testing.T) {
	p := NaturalDateParser{}
	for _, phrase := range []string{"", "   ", "Posted "} {
		if got, ok := p.Parse(phrase, fixedNow); ok {
			t.Errorf("Parse(%q) = %v, want failure", phrase, got)
		}
	}
}

func TestTrimDatePrefix(t *testing.T) {
	if got := trimDatePrefix("Reposted 3 days ago"); got != "3 days ago" {
		t.Errorf("trimDatePrefix = %q", got)
	}
	if got := trimDatePrefix("Postedness"); got != "Postedness" {
		t.Errorf("trimDatePrefix = %q, want unchanged", got)
	}
}

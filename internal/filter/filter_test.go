package filter

import (
	"testing"

	"github.com/amishk599/jobledger/internal/config"
	"github.com/amishk599/jobledger/internal/model"
)

func record(title, city, workplace, seniority string) model.JobRecord {
	return model.JobRecord{JobTitle: title, City: city, WorkplaceType: workplace, SeniorityLevel: seniority}
}

func TestRecordFilter_Match(t *testing.T) {
	tests := []struct {
		name      string
		cfg       config.FilterConfig
		rec       model.JobRecord
		wantMatch bool
	}{
		{
			name:      "matches title and city",
			cfg:       config.FilterConfig{TitleKeywords: []string{"software engineer", "backend"}, Cities: []string{"Toronto"}},
			rec:       record("Senior Backend Developer", "Toronto", "", ""),
			wantMatch: true,
		},
		{
			name:      "title match but city miss",
			cfg:       config.FilterConfig{TitleKeywords: []string{"engineer"}, Cities: []string{"Toronto"}},
			rec:       record("Software Engineer", "Vancouver", "", ""),
			wantMatch: false,
		},
		{
			name:      "case insensitive matching",
			cfg:       config.FilterConfig{TitleKeywords: []string{"FULLSTACK"}, WorkplaceTypes: []string{"Remote"}},
			rec:       record("Fullstack Developer", "", model.WorkplaceRemote, ""),
			wantMatch: true,
		},
		{
			name:      "exclude keyword wins",
			cfg:       config.FilterConfig{TitleKeywords: []string{"engineer"}, TitleExcludeKeywords: []string{"manager"}},
			rec:       record("Engineering Manager", "", "", ""),
			wantMatch: false,
		},
		{
			name:      "missing seniority does not match a constraint",
			cfg:       config.FilterConfig{SeniorityLevels: []string{"senior"}},
			rec:       record("Engineer", "", "", ""),
			wantMatch: false,
		},
		{
			name:      "empty lists pass all",
			cfg:       config.FilterConfig{},
			rec:       record("Anything", "", "", ""),
			wantMatch: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := New(tt.cfg).Match(tt.rec); got != tt.wantMatch {
				t.Errorf("Match() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestRecordFilter_Apply(t *testing.T) {
	f := New(config.FilterConfig{WorkplaceTypes: []string{"remote", "hybrid"}})
	recs := []model.JobRecord{
		record("a", "", model.WorkplaceRemote, ""),
		record("b", "", model.WorkplaceOnSite, ""),
		record("c", "", model.WorkplaceHybrid, ""),
	}
	got := f.Apply(recs)
	if len(got) != 2 || got[0].JobTitle != "a" || got[1].JobTitle != "c" {
		t.Errorf("Apply = %+v", got)
	}
}

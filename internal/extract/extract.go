// Package extract implements the deterministic, catalog-driven pass over a
// job description.
package extract

import (
	"slices"
	"strings"

	"github.com/amishk599/jobledger/internal/catalog"
	"github.com/amishk599/jobledger/internal/model"
)

// PreviewWidth is the maximum length, in runes, of DescriptionClean.
const PreviewWidth = 300

// Ellipsis terminates a truncated preview.
const Ellipsis = "…"

// Options tunes the deterministic pass.
type Options struct {
	// Skills enables dictionary skill matching against catalog.Skills.
	Skills bool
}

// Fields is the partial attribute set found in a description.
// Empty strings and nil slices mean the category was not found.
type Fields struct {
	EmploymentType   string
	WorkplaceType    string
	DegreeRequired   string
	Benefits         []string
	RequiredSkills   []string
	DescriptionClean string
}

// Extract applies the pattern catalog to text. It never fails; categories
// with no match are simply left empty.
func Extract(text string, opts Options) Fields {
	var f Fields

	f.EmploymentType, _ = catalog.FirstMatch(catalog.EmploymentTypes, text)
	f.WorkplaceType, _ = catalog.FirstMatch(catalog.WorkplaceTypes, text)
	f.DegreeRequired, _ = catalog.FirstMatch(catalog.DegreeLevels, text)

	if found := catalog.Benefits.Find(text); len(found) > 0 {
		f.Benefits = foldSorted(found)
	}

	if opts.Skills {
		if found := catalog.Skills.Find(text); len(found) > 0 {
			f.RequiredSkills = SortedUnique(found)
		}
	}

	f.DescriptionClean = Preview(text, PreviewWidth, Ellipsis)
	return f
}

// Apply copies every present field onto rec. Absent fields leave rec untouched.
func (f Fields) Apply(rec *model.JobRecord) {
	if f.EmploymentType != "" {
		rec.EmploymentType = f.EmploymentType
	}
	if f.WorkplaceType != "" {
		rec.WorkplaceType = f.WorkplaceType
	}
	if f.DegreeRequired != "" {
		rec.DegreeRequired = f.DegreeRequired
	}
	if len(f.Benefits) > 0 {
		rec.Benefits = f.Benefits
	}
	if len(f.RequiredSkills) > 0 {
		rec.RequiredSkills = f.RequiredSkills
	}
	if f.DescriptionClean != "" {
		rec.DescriptionClean = f.DescriptionClean
	}
}

// foldSorted lower-cases, deduplicates and sorts values.
func foldSorted(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, strings.ToLower(v))
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// SortedUnique trims values, drops blanks and case-insensitive duplicates
// (keeping the first spelling) and returns them sorted.
func SortedUnique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		k := strings.ToLower(v)
		if v == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

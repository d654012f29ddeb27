package model

import (
	"context"
	"time"
)

// Canonical values for the enumerated record attributes.
const (
	EmploymentFullTime   = "full-time"
	EmploymentPartTime   = "part-time"
	EmploymentContract   = "contract"
	EmploymentInternship = "internship"
	EmploymentTemporary  = "temporary"

	WorkplaceRemote = "remote"
	WorkplaceHybrid = "hybrid"
	WorkplaceOnSite = "on-site"

	DegreeBachelor = "Bachelor"
	DegreeMaster   = "Master"
	DegreePhD      = "PhD"

	SenioritySenior = "senior"
	SeniorityMid    = "mid"
	SeniorityJunior = "junior"
)

// RawJob is one observation handed over by the acquisition layer.
// Only LinkedInURL is required; everything else may be missing.
type RawJob struct {
	LinkedInURL    string     `json:"linkedin_url" validate:"required,url"`
	JobTitle       string     `json:"job_title,omitempty"`
	Company        string     `json:"company,omitempty"`
	JobDescription string     `json:"job_description,omitempty"`
	Location       string     `json:"location,omitempty"`    // "<city>, <province> · <posted> · <applicants>"
	Currency       string     `json:"currency,omitempty"`    // single currency symbol, e.g. "$"
	PostedDate     string     `json:"posted_date,omitempty"` // free-text date phrase
	ScrapedAt      *time.Time `json:"scraped_at,omitempty"`
	RequiredSkills []string   `json:"required_skills,omitempty"`
}

// JobRecord is the enriched document built from a RawJob and persisted by identity.
// Optional string fields use "" for absent; pointer fields use nil.
type JobRecord struct {
	LinkedInURL    string `json:"linkedin_url"`
	JobTitle       string `json:"job_title,omitempty"`
	Company        string `json:"company,omitempty"`
	JobDescription string `json:"job_description,omitempty"`

	EmploymentType   string   `json:"employment_type,omitempty"`
	WorkplaceType    string   `json:"workplace_type,omitempty"`
	DegreeRequired   string   `json:"degree_required,omitempty"`
	Benefits         []string `json:"benefits,omitempty"`
	RequiredSkills   []string `json:"required_skills,omitzero"` // nil = absent, empty = none found
	DescriptionClean string   `json:"description_clean,omitempty"`

	// Transient inputs, consumed by normalization and never stored.
	Location   string `json:"-"`
	PostedDate string `json:"-"`

	City           string     `json:"city,omitempty"`
	Province       string     `json:"province,omitempty"`
	PostedAt       *time.Time `json:"posted_at,omitempty"`
	ApplicantCount *int       `json:"applicant_count,omitempty"`
	SeniorityLevel string     `json:"seniority_level,omitempty"`
	ScrapedAt      *time.Time `json:"scraped_at,omitempty"`
	PostingAgeDays *int       `json:"posting_age_days,omitempty"`

	Currency     string `json:"currency,omitempty"`
	CurrencyCode string `json:"currency_code,omitempty"`
}

// NewJobRecord builds a fresh record from one observation.
func NewJobRecord(raw RawJob) *JobRecord {
	rec := &JobRecord{
		LinkedInURL:    raw.LinkedInURL,
		JobTitle:       raw.JobTitle,
		Company:        raw.Company,
		JobDescription: raw.JobDescription,
		Location:       raw.Location,
		PostedDate:     raw.PostedDate,
		Currency:       raw.Currency,
	}
	if raw.ScrapedAt != nil {
		t := raw.ScrapedAt.UTC()
		rec.ScrapedAt = &t
	}
	if raw.RequiredSkills != nil {
		rec.RequiredSkills = append([]string{}, raw.RequiredSkills...)
	}
	return rec
}

// UpsertResult reports what an identity-keyed write did.
type UpsertResult struct {
	Inserted     bool      // true when this identity was seen for the first time
	Observations int       // number of writes seen for this identity, including this one
	ScrapedAt    time.Time // the stored first-seen time
}

// ListQuery selects stored records for downstream inspection.
type ListQuery struct {
	City        string     // exact match, empty = any
	PostedSince *time.Time // posted_at >= PostedSince
	Limit       int        // 0 = store default
}

// JobStore persists records keyed by LinkedInURL.
type JobStore interface {
	Upsert(ctx context.Context, rec *JobRecord) (UpsertResult, error)
	Get(ctx context.Context, linkedinURL string) (*JobRecord, error)
	List(ctx context.Context, q ListQuery) ([]JobRecord, error)
	Close() error
}

// Notifier reports records that were stored.
type Notifier interface {
	Notify(records []StoredRecord) error
}

// StoredRecord pairs a persisted record with the outcome of its write.
type StoredRecord struct {
	Record *JobRecord
	Result UpsertResult
}

// RecordFilter decides whether a stored record matches the user's criteria.
type RecordFilter interface {
	Match(rec JobRecord) bool
}

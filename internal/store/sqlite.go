package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amishk599/jobledger/internal/model"
	_ "modernc.org/sqlite"
)

// Ensure SQLiteStore implements model.JobStore.
var _ model.JobStore = (*SQLiteStore)(nil)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	linkedin_url      TEXT PRIMARY KEY,
	job_title         TEXT,
	company           TEXT,
	job_description   TEXT,
	employment_type   TEXT,
	workplace_type    TEXT,
	degree_required   TEXT,
	benefits          TEXT,
	required_skills   TEXT,
	description_clean TEXT,
	city              TEXT,
	province          TEXT,
	posted_at         TEXT,
	applicant_count   INTEGER,
	seniority_level   TEXT,
	posting_age_days  INTEGER,
	currency          TEXT,
	currency_code     TEXT,
	scraped_at        TEXT NOT NULL,
	last_seen_at      TEXT NOT NULL,
	observations      INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_jobs_posted_at ON jobs (posted_at);
CREATE INDEX IF NOT EXISTS idx_jobs_city ON jobs (city);`

// mergedColumns are overwritten on conflict when the incoming value is present.
var mergedColumns = []string{
	"job_title", "company", "job_description",
	"employment_type", "workplace_type", "degree_required",
	"benefits", "required_skills", "description_clean",
	"city", "province", "posted_at", "applicant_count",
	"seniority_level", "posting_age_days", "currency", "currency_code",
}

const selectColumns = `linkedin_url, job_title, company, job_description,
	employment_type, workplace_type, degree_required, benefits, required_skills,
	description_clean, city, province, posted_at, applicant_count, seniority_level,
	posting_age_days, currency, currency_code, scraped_at`

// SQLiteStore keeps job records in a local SQLite database.
type SQLiteStore struct {
	db        *sql.DB
	upsertSQL string
	now       func() time.Time
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// jobs table and its indexes exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// A single connection serializes writers; SQLite allows only one anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}

	return &SQLiteStore{db: db, upsertSQL: buildSQLiteUpsert(), now: time.Now}, nil
}

func buildSQLiteUpsert() string {
	cols := append([]string{"linkedin_url"}, mergedColumns...)
	cols = append(cols, "scraped_at", "last_seen_at")

	sets := make([]string, 0, len(mergedColumns)+2)
	for _, c := range mergedColumns {
		sets = append(sets, fmt.Sprintf("%s = COALESCE(excluded.%s, jobs.%s)", c, c, c))
	}
	sets = append(sets, "last_seen_at = excluded.last_seen_at", "observations = jobs.observations + 1")

	return fmt.Sprintf(
		"INSERT INTO jobs (%s) VALUES (%s)\nON CONFLICT (linkedin_url) DO UPDATE SET %s\nRETURNING observations, scraped_at",
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
		strings.Join(sets, ", "),
	)
}

// Upsert writes rec in one atomic statement keyed on its LinkedIn URL.
func (s *SQLiteStore) Upsert(ctx context.Context, rec *model.JobRecord) (model.UpsertResult, error) {
	if rec == nil || rec.LinkedInURL == "" {
		return model.UpsertResult{}, fmt.Errorf("upsert: %w: missing linkedin_url", model.ErrInvalidInput)
	}

	now := s.now().UTC()
	args, err := upsertArgs(rec, firstSeen(rec, now), now)
	if err != nil {
		return model.UpsertResult{}, err
	}

	var observations int
	var scraped string
	if err := s.db.QueryRowContext(ctx, s.upsertSQL, args...).Scan(&observations, &scraped); err != nil {
		return model.UpsertResult{}, &model.StoreError{Op: "upsert " + rec.LinkedInURL, Err: err}
	}

	stored, err := time.Parse(timeLayout, scraped)
	if err != nil {
		return model.UpsertResult{}, &model.StoreError{Op: "upsert " + rec.LinkedInURL, Err: err}
	}
	return model.UpsertResult{Inserted: observations == 1, Observations: observations, ScrapedAt: stored}, nil
}

// upsertArgs lists the values in the column order of buildSQLiteUpsert.
func upsertArgs(rec *model.JobRecord, scrapedAt, now time.Time) ([]any, error) {
	benefits, err := nullList(rec.Benefits)
	if err != nil {
		return nil, err
	}
	skills, err := nullList(rec.RequiredSkills)
	if err != nil {
		return nil, err
	}
	return []any{
		rec.LinkedInURL,
		nullString(rec.JobTitle), nullString(rec.Company), nullString(rec.JobDescription),
		nullString(rec.EmploymentType), nullString(rec.WorkplaceType), nullString(rec.DegreeRequired),
		benefits, skills, nullString(rec.DescriptionClean),
		nullString(rec.City), nullString(rec.Province), nullTime(rec.PostedAt), nullInt(rec.ApplicantCount),
		nullString(rec.SeniorityLevel), nullInt(rec.PostingAgeDays), nullString(rec.Currency), nullString(rec.CurrencyCode),
		scrapedAt.Format(timeLayout), now.Format(timeLayout),
	}, nil
}

// Get returns the stored record for linkedinURL or model.ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, linkedinURL string) (*model.JobRecord, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM jobs WHERE linkedin_url = ?", linkedinURL)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, &model.StoreError{Op: "get " + linkedinURL, Err: err}
	}
	return rec, nil
}

// List returns records matching q, most recently posted first.
func (s *SQLiteStore) List(ctx context.Context, q model.ListQuery) ([]model.JobRecord, error) {
	var where []string
	var args []any
	if q.City != "" {
		where = append(where, "city = ?")
		args = append(args, q.City)
	}
	if q.PostedSince != nil {
		where = append(where, "posted_at >= ?")
		args = append(args, q.PostedSince.UTC().Format(timeLayout))
	}

	query := "SELECT " + selectColumns + " FROM jobs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY posted_at DESC, scraped_at DESC LIMIT ?"
	args = append(args, limitOf(q))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &model.StoreError{Op: "list", Err: err}
	}
	defer rows.Close()

	var out []model.JobRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &model.StoreError{Op: "list", Err: err}
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &model.StoreError{Op: "list", Err: err}
	}
	return out, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*model.JobRecord, error) {
	var (
		rec                                        model.JobRecord
		title, company, desc, emp, work, degree    *string
		benefits, skills, clean, city, province    *string
		posted, seniority, currency, code, scraped *string
		applicants, age                            *int64
	)
	err := sc.Scan(&rec.LinkedInURL, &title, &company, &desc,
		&emp, &work, &degree, &benefits, &skills,
		&clean, &city, &province, &posted, &applicants, &seniority,
		&age, &currency, &code, &scraped)
	if err != nil {
		return nil, err
	}

	rec.JobTitle, rec.Company, rec.JobDescription = deref(title), deref(company), deref(desc)
	rec.EmploymentType, rec.WorkplaceType, rec.DegreeRequired = deref(emp), deref(work), deref(degree)
	rec.DescriptionClean, rec.City, rec.Province = deref(clean), deref(city), deref(province)
	rec.SeniorityLevel, rec.Currency, rec.CurrencyCode = deref(seniority), deref(currency), deref(code)
	rec.ApplicantCount, rec.PostingAgeDays = intPtr(applicants), intPtr(age)

	if rec.Benefits, err = parseList(benefits); err != nil {
		return nil, err
	}
	if rec.RequiredSkills, err = parseList(skills); err != nil {
		return nil, err
	}
	if rec.PostedAt, err = parseTime(posted); err != nil {
		return nil, err
	}
	if rec.ScrapedAt, err = parseTime(scraped); err != nil {
		return nil, err
	}
	return &rec, nil
}

package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amishk599/jobledger/internal/model"
)

// Ensure PostgresStore implements model.JobStore.
var _ model.JobStore = (*PostgresStore)(nil)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS jobs (
	linkedin_url      TEXT PRIMARY KEY,
	job_title         TEXT,
	company           TEXT,
	job_description   TEXT,
	employment_type   TEXT,
	workplace_type    TEXT,
	degree_required   TEXT,
	benefits          TEXT[],
	required_skills   TEXT[],
	description_clean TEXT,
	city              TEXT,
	province          TEXT,
	posted_at         TIMESTAMPTZ,
	applicant_count   INTEGER,
	seniority_level   TEXT,
	posting_age_days  INTEGER,
	currency          TEXT,
	currency_code     TEXT,
	scraped_at        TIMESTAMPTZ NOT NULL,
	last_seen_at      TIMESTAMPTZ NOT NULL,
	observations      INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_jobs_posted_at ON jobs (posted_at);
CREATE INDEX IF NOT EXISTS idx_jobs_city ON jobs (city);`

// PostgresStore keeps job records in PostgreSQL through a pgx pool.
type PostgresStore struct {
	pool      *pgxpool.Pool
	upsertSQL string
	now       func() time.Time
}

// NewPostgresStore connects to databaseURL and ensures the jobs table exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating jobs table: %w", err)
	}
	return &PostgresStore{pool: pool, upsertSQL: buildPostgresUpsert(), now: time.Now}, nil
}

func buildPostgresUpsert() string {
	cols := append([]string{"linkedin_url"}, mergedColumns...)
	cols = append(cols, "scraped_at", "last_seen_at")

	params := make([]string, len(cols))
	for i := range cols {
		params[i] = fmt.Sprintf("$%d", i+1)
	}

	sets := make([]string, 0, len(mergedColumns)+2)
	for _, c := range mergedColumns {
		sets = append(sets, fmt.Sprintf("%s = COALESCE(EXCLUDED.%s, jobs.%s)", c, c, c))
	}
	sets = append(sets, "last_seen_at = EXCLUDED.last_seen_at", "observations = jobs.observations + 1")

	return fmt.Sprintf(
		"INSERT INTO jobs (%s) VALUES (%s)\nON CONFLICT (linkedin_url) DO UPDATE SET %s\nRETURNING observations, scraped_at",
		strings.Join(cols, ", "), strings.Join(params, ", "), strings.Join(sets, ", "),
	)
}

// Upsert writes rec with a single INSERT ... ON CONFLICT statement.
func (s *PostgresStore) Upsert(ctx context.Context, rec *model.JobRecord) (model.UpsertResult, error) {
	if rec == nil || rec.LinkedInURL == "" {
		return model.UpsertResult{}, fmt.Errorf("upsert: %w: missing linkedin_url", model.ErrInvalidInput)
	}

	now := s.now().UTC()
	scrapedAt := firstSeen(rec, now)
	args := []any{
		rec.LinkedInURL,
		nullString(rec.JobTitle), nullString(rec.Company), nullString(rec.JobDescription),
		nullString(rec.EmploymentType), nullString(rec.WorkplaceType), nullString(rec.DegreeRequired),
		rec.Benefits, rec.RequiredSkills, nullString(rec.DescriptionClean),
		nullString(rec.City), nullString(rec.Province), rec.PostedAt, rec.ApplicantCount,
		nullString(rec.SeniorityLevel), rec.PostingAgeDays, nullString(rec.Currency), nullString(rec.CurrencyCode),
		scrapedAt, now,
	}

	var observations int
	var stored time.Time
	if err := s.pool.QueryRow(ctx, s.upsertSQL, args...).Scan(&observations, &stored); err != nil {
		return model.UpsertResult{}, &model.StoreError{Op: "upsert " + rec.LinkedInURL, Err: err}
	}
	return model.UpsertResult{Inserted: observations == 1, Observations: observations, ScrapedAt: stored.UTC()}, nil
}

// Get returns the stored record for linkedinURL or model.ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, linkedinURL string) (*model.JobRecord, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+selectColumns+" FROM jobs WHERE linkedin_url = $1", linkedinURL)
	rec, err := scanPostgresRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, &model.StoreError{Op: "get " + linkedinURL, Err: err}
	}
	return rec, nil
}

// List returns records matching q, most recently posted first.
func (s *PostgresStore) List(ctx context.Context, q model.ListQuery) ([]model.JobRecord, error) {
	var where []string
	var args []any
	if q.City != "" {
		args = append(args, q.City)
		where = append(where, fmt.Sprintf("city = $%d", len(args)))
	}
	if q.PostedSince != nil {
		args = append(args, q.PostedSince.UTC())
		where = append(where, fmt.Sprintf("posted_at >= $%d", len(args)))
	}

	query := "SELECT " + selectColumns + " FROM jobs"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limitOf(q))
	query += fmt.Sprintf(" ORDER BY posted_at DESC NULLS LAST, scraped_at DESC LIMIT $%d", len(args))

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, &model.StoreError{Op: "list", Err: err}
	}
	defer rows.Close()

	var out []model.JobRecord
	for rows.Next() {
		rec, err := scanPostgresRecord(rows)
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

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func scanPostgresRecord(row pgx.Row) (*model.JobRecord, error) {
	var (
		rec                                            model.JobRecord
		title, company, desc, emp, work, degree, clean *string
		city, province, seniority, currency, code      *string
		benefits, skills                               []string
		posted                                         *time.Time
		scraped                                        time.Time
	)
	err := row.Scan(&rec.LinkedInURL, &title, &company, &desc,
		&emp, &work, &degree, &benefits, &skills,
		&clean, &city, &province, &posted, &rec.ApplicantCount, &seniority,
		&rec.PostingAgeDays, &currency, &code, &scraped)
	if err != nil {
		return nil, err
	}

	rec.JobTitle, rec.Company, rec.JobDescription = deref(title), deref(company), deref(desc)
	rec.EmploymentType, rec.WorkplaceType, rec.DegreeRequired = deref(emp), deref(work), deref(degree)
	rec.DescriptionClean, rec.City, rec.Province = deref(clean), deref(city), deref(province)
	rec.SeniorityLevel, rec.Currency, rec.CurrencyCode = deref(seniority), deref(currency), deref(code)
	rec.Benefits, rec.RequiredSkills = benefits, skills
	if posted != nil {
		t := posted.UTC()
		rec.PostedAt = &t
	}
	scraped = scraped.UTC()
	rec.ScrapedAt = &scraped
	return &rec, nil
}

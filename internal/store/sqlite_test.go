package store

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/amishk599/jobledger/internal/model"
)

const testURL = "https://www.linkedin.com/jobs/view/4012345678/"

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptrTime(t time.Time) *time.Time { return &t }
func ptrInt(n int) *int              { return &n }

func TestUpsertInsertThenGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	scraped := time.Date(2025, 5, 20, 15, 0, 0, 0, time.UTC)

	rec := &model.JobRecord{
		LinkedInURL:    testURL,
		JobTitle:       "Backend Engineer",
		Company:        "Acme",
		EmploymentType: model.EmploymentFullTime,
		Benefits:       []string{"dental", "pension"},
		RequiredSkills: []string{"Go", "SQL"},
		City:           "Toronto",
		Province:       "ON",
		PostedAt:       ptrTime(scraped.Add(-72 * time.Hour)),
		ApplicantCount: ptrInt(57),
		ScrapedAt:      &scraped,
		PostingAgeDays: ptrInt(3),
		Currency:       "$",
		CurrencyCode:   "CAD",
	}

	res, err := s.Upsert(ctx, rec)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !res.Inserted || res.Observations != 1 || !res.ScrapedAt.Equal(scraped) {
		t.Errorf("result = %+v, want first insert at %v", res, scraped)
	}

	got, err := s.Get(ctx, testURL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.JobTitle != "Backend Engineer" || got.City != "Toronto" || got.CurrencyCode != "CAD" {
		t.Errorf("got %+v", got)
	}
	if !slices.Equal(got.RequiredSkills, []string{"Go", "SQL"}) || !slices.Equal(got.Benefits, []string{"dental", "pension"}) {
		t.Errorf("lists = %v / %v", got.RequiredSkills, got.Benefits)
	}
	if got.ApplicantCount == nil || *got.ApplicantCount != 57 {
		t.Errorf("ApplicantCount = %v, want 57", got.ApplicantCount)
	}
	if got.PostedAt == nil || !got.PostedAt.Equal(*rec.PostedAt) {
		t.Errorf("PostedAt = %v, want %v", got.PostedAt, rec.PostedAt)
	}
}

func TestUpsertKeepsFirstScrapedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	first := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	if _, err := s.Upsert(ctx, &model.JobRecord{LinkedInURL: testURL, JobTitle: "Old title", ScrapedAt: &first}); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	res, err := s.Upsert(ctx, &model.JobRecord{LinkedInURL: testURL, JobTitle: "New title", ScrapedAt: &later})
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if res.Inserted || res.Observations != 2 {
		t.Errorf("result = %+v, want update with 2 observations", res)
	}
	if !res.ScrapedAt.Equal(first) {
		t.Errorf("ScrapedAt = %v, want first-seen %v", res.ScrapedAt, first)
	}

	got, err := s.Get(ctx, testURL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.JobTitle != "New title" {
		t.Errorf("JobTitle = %q, want later observation to win", got.JobTitle)
	}
	if got.ScrapedAt == nil || !got.ScrapedAt.Equal(first) {
		t.Errorf("stored ScrapedAt = %v, want %v", got.ScrapedAt, first)
	}
}

func TestUpsertAbsentFieldsKeepStoredValues(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Upsert(ctx, &model.JobRecord{LinkedInURL: testURL, Company: "Acme", RequiredSkills: []string{"Go"}}); err != nil {
		t.Fatalf("first Upsert: %v", err)
	}
	if _, err := s.Upsert(ctx, &model.JobRecord{LinkedInURL: testURL, JobTitle: "Engineer"}); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}

	got, err := s.Get(ctx, testURL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Company != "Acme" || got.JobTitle != "Engineer" || !slices.Equal(got.RequiredSkills, []string{"Go"}) {
		t.Errorf("merged record = %+v", got)
	}
}

func TestUpsertEmptySkillsDifferFromAbsent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Upsert(ctx, &model.JobRecord{LinkedInURL: testURL, RequiredSkills: []string{}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if _, err := s.Upsert(ctx, &model.JobRecord{LinkedInURL: testURL + "2"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	empty, _ := s.Get(ctx, testURL)
	if empty.RequiredSkills == nil || len(empty.RequiredSkills) != 0 {
		t.Errorf("RequiredSkills = %#v, want empty list", empty.RequiredSkills)
	}
	absent, _ := s.Get(ctx, testURL+"2")
	if absent.RequiredSkills != nil {
		t.Errorf("RequiredSkills = %#v, want absent", absent.RequiredSkills)
	}
}

func TestUpsertStampsNowWhenScrapedAtMissing(t *testing.T) {
	s := newTestStore(t)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	res, err := s.Upsert(context.Background(), &model.JobRecord{LinkedInURL: testURL})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !res.ScrapedAt.Equal(fixed) {
		t.Errorf("ScrapedAt = %v, want %v", res.ScrapedAt, fixed)
	}
}

func TestUpsertConcurrentSameIdentity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			at := time.Date(2025, 5, 1, 0, i, 0, 0, time.UTC)
			if _, err := s.Upsert(ctx, &model.JobRecord{LinkedInURL: testURL, ScrapedAt: &at}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Upsert: %v", err)
	}

	res, err := s.Upsert(ctx, &model.JobRecord{LinkedInURL: testURL})
	if err != nil {
		t.Fatalf("final Upsert: %v", err)
	}
	if res.Observations != writers+1 {
		t.Errorf("Observations = %d, want %d", res.Observations, writers+1)
	}
}

func TestUpsertRejectsMissingIdentity(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Upsert(context.Background(), &model.JobRecord{JobTitle: "x"})
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestUpsertCancelledContextWritesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Upsert(ctx, &model.JobRecord{LinkedInURL: testURL})
	var storeErr *model.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("err = %v, want *model.StoreError", err)
	}
	if _, err := s.Get(context.Background(), testURL); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("Get after cancelled upsert: err = %v, want ErrNotFound", err)
	}
}

func TestGetUnknownReturnsNotFound(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(context.Background(), "https://www.linkedin.com/jobs/view/1/"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListFiltersAndOrders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)

	seed := []model.JobRecord{
		{LinkedInURL: "https://www.linkedin.com/jobs/view/1/", City: "Toronto", PostedAt: ptrTime(base.AddDate(0, 0, -10))},
		{LinkedInURL: "https://www.linkedin.com/jobs/view/2/", City: "Toronto", PostedAt: ptrTime(base.AddDate(0, 0, -1))},
		{LinkedInURL: "https://www.linkedin.com/jobs/view/3/", City: "Vancouver", PostedAt: ptrTime(base)},
		{LinkedInURL: "https://www.linkedin.com/jobs/view/4/", City: "Toronto"},
	}
	for i := range seed {
		if _, err := s.Upsert(ctx, &seed[i]); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	got, err := s.List(ctx, model.ListQuery{City: "Toronto"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var urls []string
	for _, r := range got {
		urls = append(urls, r.LinkedInURL)
	}
	want := []string{
		"https://www.linkedin.com/jobs/view/2/",
		"https://www.linkedin.com/jobs/view/1/",
		"https://www.linkedin.com/jobs/view/4/",
	}
	if !slices.Equal(urls, want) {
		t.Errorf("List(city) = %v, want %v", urls, want)
	}

	since := base.AddDate(0, 0, -2)
	got, err = s.List(ctx, model.ListQuery{PostedSince: &since, Limit: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].LinkedInURL != "https://www.linkedin.com/jobs/view/3/" {
		t.Errorf("List(since, limit 1) = %+v", got)
	}
}

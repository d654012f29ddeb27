package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/amishk599/jobledger/internal/model"
)

// Ensure MongoStore implements model.JobStore.
var _ model.JobStore = (*MongoStore)(nil)

// duplicateRetries bounds how often an insert race is replayed as an update.
const duplicateRetries = 3

// mongoJob is the stored document. omitempty keeps absent fields out of $set.
type mongoJob struct {
	LinkedInURL      string     `bson:"linkedin_url"`
	JobTitle         string     `bson:"job_title,omitempty"`
	Company          string     `bson:"company,omitempty"`
	JobDescription   string     `bson:"job_description,omitempty"`
	EmploymentType   string     `bson:"employment_type,omitempty"`
	WorkplaceType    string     `bson:"workplace_type,omitempty"`
	DegreeRequired   string     `bson:"degree_required,omitempty"`
	Benefits         []string   `bson:"benefits,omitempty"`
	RequiredSkills   *[]string  `bson:"required_skills,omitempty"`
	DescriptionClean string     `bson:"description_clean,omitempty"`
	City             string     `bson:"city,omitempty"`
	Province         string     `bson:"province,omitempty"`
	PostedAt         *time.Time `bson:"posted_at,omitempty"`
	ApplicantCount   *int       `bson:"applicant_count,omitempty"`
	SeniorityLevel   string     `bson:"seniority_level,omitempty"`
	PostingAgeDays   *int       `bson:"posting_age_days,omitempty"`
	Currency         string     `bson:"currency,omitempty"`
	CurrencyCode     string     `bson:"currency_code,omitempty"`
	LastSeenAt       time.Time  `bson:"last_seen_at"`

	// Written by $setOnInsert and $inc only.
	ScrapedAt    *time.Time `bson:"scraped_at,omitempty"`
	Observations int        `bson:"observations,omitempty"`
}

func toMongoJob(rec *model.JobRecord, now time.Time) mongoJob {
	doc := mongoJob{
		LinkedInURL:      rec.LinkedInURL,
		JobTitle:         rec.JobTitle,
		Company:          rec.Company,
		JobDescription:   rec.JobDescription,
		EmploymentType:   rec.EmploymentType,
		WorkplaceType:    rec.WorkplaceType,
		DegreeRequired:   rec.DegreeRequired,
		Benefits:         rec.Benefits,
		DescriptionClean: rec.DescriptionClean,
		City:             rec.City,
		Province:         rec.Province,
		PostedAt:         rec.PostedAt,
		ApplicantCount:   rec.ApplicantCount,
		SeniorityLevel:   rec.SeniorityLevel,
		PostingAgeDays:   rec.PostingAgeDays,
		Currency:         rec.Currency,
		CurrencyCode:     rec.CurrencyCode,
		LastSeenAt:       now,
	}
	if rec.RequiredSkills != nil {
		skills := rec.RequiredSkills
		doc.RequiredSkills = &skills
	}
	return doc
}

func (d mongoJob) record() *model.JobRecord {
	rec := &model.JobRecord{
		LinkedInURL:      d.LinkedInURL,
		JobTitle:         d.JobTitle,
		Company:          d.Company,
		JobDescription:   d.JobDescription,
		EmploymentType:   d.EmploymentType,
		WorkplaceType:    d.WorkplaceType,
		DegreeRequired:   d.DegreeRequired,
		Benefits:         d.Benefits,
		DescriptionClean: d.DescriptionClean,
		City:             d.City,
		Province:         d.Province,
		PostedAt:         utcPtr(d.PostedAt),
		ApplicantCount:   d.ApplicantCount,
		SeniorityLevel:   d.SeniorityLevel,
		ScrapedAt:        utcPtr(d.ScrapedAt),
		PostingAgeDays:   d.PostingAgeDays,
		Currency:         d.Currency,
		CurrencyCode:     d.CurrencyCode,
	}
	if d.RequiredSkills != nil {
		rec.RequiredSkills = append([]string{}, *d.RequiredSkills...)
	}
	return rec
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// MongoStore keeps job records in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	jobs   *mongo.Collection
	now    func() time.Time
}

// NewMongoStore connects to uri, pings the server and ensures the
// linkedin_url (unique), posted_at and city indexes exist.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongo: %w", err)
	}

	jobs := client.Database(database).Collection("jobs")
	_, err = jobs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "linkedin_url", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "posted_at", Value: 1}}},
		{Keys: bson.D{{Key: "city", Value: 1}}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("creating mongo indexes: %w", err)
	}

	return &MongoStore{client: client, jobs: jobs, now: time.Now}, nil
}

// Upsert applies $set for the record's present fields and $setOnInsert for
// scraped_at in one findAndModify. A duplicate-key error from two concurrent
// first inserts is replayed; the second attempt matches and updates.
func (s *MongoStore) Upsert(ctx context.Context, rec *model.JobRecord) (model.UpsertResult, error) {
	if rec == nil || rec.LinkedInURL == "" {
		return model.UpsertResult{}, fmt.Errorf("upsert: %w: missing linkedin_url", model.ErrInvalidInput)
	}

	now := s.now().UTC()
	update := bson.M{
		"$set":         toMongoJob(rec, now),
		"$setOnInsert": bson.M{"scraped_at": firstSeen(rec, now)},
		"$inc":         bson.M{"observations": 1},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored mongoJob
	err := retryOnDuplicate(duplicateRetries, func() error {
		return s.jobs.FindOneAndUpdate(ctx, bson.M{"linkedin_url": rec.LinkedInURL}, update, opts).Decode(&stored)
	})
	if err != nil {
		return model.UpsertResult{}, &model.StoreError{Op: "upsert " + rec.LinkedInURL, Err: err}
	}

	res := model.UpsertResult{Inserted: stored.Observations == 1, Observations: stored.Observations}
	if stored.ScrapedAt != nil {
		res.ScrapedAt = stored.ScrapedAt.UTC()
	}
	return res, nil
}

// retryOnDuplicate runs fn until it stops failing with a duplicate-key error,
// at most attempts times.
func retryOnDuplicate(attempts int, fn func() error) error {
	var err error
	for range attempts {
		if err = fn(); !mongo.IsDuplicateKeyError(err) {
			return err
		}
	}
	return err
}

// Get returns the stored record for linkedinURL or model.ErrNotFound.
func (s *MongoStore) Get(ctx context.Context, linkedinURL string) (*model.JobRecord, error) {
	var doc mongoJob
	err := s.jobs.FindOne(ctx, bson.M{"linkedin_url": linkedinURL}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, &model.StoreError{Op: "get " + linkedinURL, Err: err}
	}
	return doc.record(), nil
}

// List returns records matching q, most recently posted first.
func (s *MongoStore) List(ctx context.Context, q model.ListQuery) ([]model.JobRecord, error) {
	filter := bson.M{}
	if q.City != "" {
		filter["city"] = q.City
	}
	if q.PostedSince != nil {
		filter["posted_at"] = bson.M{"$gte": q.PostedSince.UTC()}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "posted_at", Value: -1}, {Key: "scraped_at", Value: -1}}).
		SetLimit(int64(limitOf(q)))

	cur, err := s.jobs.Find(ctx, filter, opts)
	if err != nil {
		return nil, &model.StoreError{Op: "list", Err: err}
	}
	defer cur.Close(ctx)

	var docs []mongoJob
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &model.StoreError{Op: "list", Err: err}
	}
	out := make([]model.JobRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, *d.record())
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

package store

import (
	"context"
	"time"

	"github.com/amishk599/jobledger/internal/model"
)

// NopStore is a no-op store used by the extract command and dry runs. Every
// upsert looks like a first insert and nothing is kept.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) Upsert(_ context.Context, rec *model.JobRecord) (model.UpsertResult, error) {
	return model.UpsertResult{Inserted: true, Observations: 1, ScrapedAt: firstSeen(rec, time.Now())}, nil
}

func (s *NopStore) Get(context.Context, string) (*model.JobRecord, error) {
	return nil, model.ErrNotFound
}

func (s *NopStore) List(context.Context, model.ListQuery) ([]model.JobRecord, error) {
	return nil, nil
}

func (s *NopStore) Close() error { return nil }

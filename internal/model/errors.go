package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by JobStore.Get for an unknown identity.
	ErrNotFound = errors.New("job record not found")

	// ErrInvalidInput marks observations the pipeline refuses to process.
	ErrInvalidInput = errors.New("invalid job input")
)

// StoreError wraps a failure to reach or write the durable store so callers
// can tell it apart from per-record problems and retry the whole record.
type StoreError struct {
	Op  string // "upsert", "get", "list", "open"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

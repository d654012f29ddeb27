package notifier

import (
	"testing"

	"github.com/amishk599/jobledger/internal/model"
)

type recordingNotifier struct {
	calls [][]model.StoredRecord
}

func (r *recordingNotifier) Notify(records []model.StoredRecord) error {
	r.calls = append(r.calls, records)
	return nil
}

type cityFilter string

func (c cityFilter) Match(rec model.JobRecord) bool { return rec.City == string(c) }

func TestFilteredNotifier_OnlyNew(t *testing.T) {
	inner := &recordingNotifier{}
	n := NewFilteredNotifier(inner, nil, true)

	records := []model.StoredRecord{
		sampleStored("A", "X", true),
		sampleStored("B", "Y", false),
	}
	if err := n.Notify(records); err != nil {
		t.Fatalf("Notify() = %v", err)
	}
	if len(inner.calls) != 1 || len(inner.calls[0]) != 1 || inner.calls[0][0].Record.JobTitle != "A" {
		t.Fatalf("forwarded = %+v, want only the inserted record", inner.calls)
	}
}

func TestFilteredNotifier_AppliesFilter(t *testing.T) {
	inner := &recordingNotifier{}
	n := NewFilteredNotifier(inner, cityFilter("Vancouver"), false)

	match := sampleStored("A", "X", false)
	match.Record.City = "Vancouver"
	records := []model.StoredRecord{sampleStored("B", "Y", true), match}

	if err := n.Notify(records); err != nil {
		t.Fatalf("Notify() = %v", err)
	}
	if len(inner.calls) != 1 || len(inner.calls[0]) != 1 || inner.calls[0][0].Record.City != "Vancouver" {
		t.Fatalf("forwarded = %+v", inner.calls)
	}
}

func TestFilteredNotifier_NoMatchSkipsInner(t *testing.T) {
	inner := &recordingNotifier{}
	n := NewFilteredNotifier(inner, cityFilter("Montreal"), true)

	if err := n.Notify([]model.StoredRecord{sampleStored("A", "X", true), {}}); err != nil {
		t.Fatalf("Notify() = %v", err)
	}
	if len(inner.calls) != 0 {
		t.Errorf("inner called %d times, want 0", len(inner.calls))
	}
}

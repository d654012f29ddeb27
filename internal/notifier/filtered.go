package notifier

import "github.com/amishk599/jobledger/internal/model"

// Ensure FilteredNotifier implements model.Notifier.
var _ model.Notifier = (*FilteredNotifier)(nil)

// FilteredNotifier forwards only the records that pass the filter and,
// when onlyNew is set, were stored for the first time.
type FilteredNotifier struct {
	inner   model.Notifier
	filter  model.RecordFilter
	onlyNew bool
}

// NewFilteredNotifier wraps inner. A nil filter matches every record.
func NewFilteredNotifier(inner model.Notifier, filter model.RecordFilter, onlyNew bool) *FilteredNotifier {
	return &FilteredNotifier{inner: inner, filter: filter, onlyNew: onlyNew}
}

// Notify delegates the matching subset. Nothing is sent when no record matches.
func (f *FilteredNotifier) Notify(records []model.StoredRecord) error {
	var kept []model.StoredRecord
	for _, sr := range records {
		if sr.Record == nil {
			continue
		}
		if f.onlyNew && !sr.Result.Inserted {
			continue
		}
		if f.filter != nil && !f.filter.Match(*sr.Record) {
			continue
		}
		kept = append(kept, sr)
	}
	if len(kept) == 0 {
		return nil
	}
	return f.inner.Notify(kept)
}

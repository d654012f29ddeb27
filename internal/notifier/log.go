package notifier

import (
	"log/slog"

	"github.com/amishk599/jobledger/internal/model"
)

// Ensure LogNotifier implements model.Notifier.
var _ model.Notifier = (*LogNotifier)(nil)

// LogNotifier writes stored records to the given logger as structured messages.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier returns a notifier that logs each stored record via slog.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs one line per record. It never fails.
func (n *LogNotifier) Notify(records []model.StoredRecord) error {
	for _, sr := range records {
		if sr.Record == nil {
			continue
		}
		r := sr.Record
		args := []any{
			"linkedin_url", r.LinkedInURL,
			"inserted", sr.Result.Inserted,
			"observations", sr.Result.Observations,
		}
		if r.City != "" {
			args = append(args, "city", r.City)
		}
		if r.WorkplaceType != "" {
			args = append(args, "workplace", r.WorkplaceType)
		}
		if r.PostedAt != nil {
			args = append(args, "posted_at", *r.PostedAt)
		}
		n.logger.Info("stored "+displayTitle(r)+" > "+displayCompany(r), args...)
	}
	return nil
}

func displayTitle(r *model.JobRecord) string {
	if r.JobTitle == "" {
		return "(untitled)"
	}
	return r.JobTitle
}

func displayCompany(r *model.JobRecord) string {
	if r.Company == "" {
		return "(unknown company)"
	}
	return r.Company
}

package report

import (
	"log/slog"
	"sort"

	"balancehealth/internal/domain/activity"
	"balancehealth/internal/domain/score"
)

// Unrecognized is a score entry that produced no row.
type Unrecognized struct {
	DocumentID string
	Label      string
	Reason     string
}

// Reasons an entry produced no row.
const (
	ReasonUnknownActivity = "unknown_activity"
	ReasonInvalidDate     = "invalid_date"
)

// Flattened is the tabular form of a patient's score documents.
type Flattened struct {
	Rows         []score.Row
	Unrecognized []Unrecognized
}

// Flatten converts score documents into rows, one per known activity entry.
// Documents keep their input order; inside a document entries follow activity.Kinds.
// Entries that cannot become rows are returned in Unrecognized and logged, never dropped silently.
func Flatten(docs []score.Document) Flattened {
	out := Flattened{Rows: []score.Row{}}
	for _, doc := range docs {
		for _, kind := range activity.Kinds {
			e, ok := doc.Entries[kind.Label()]
			if !ok {
				continue
			}
			day, err := e.Day()
			if err != nil {
				out.Unrecognized = append(out.Unrecognized, Unrecognized{
					DocumentID: doc.ID, Label: kind.Label(), Reason: ReasonInvalidDate,
				})
				continue
			}
			out.Rows = append(out.Rows, score.Row{
				DocumentID:   doc.ID,
				ActivityName: kind.Label(),
				Kind:         kind,
				Date:         day,
				Max:          e.MaxValue,
				Min:          e.MinValue,
				Avg:          e.AvgValue,
				Completed:    e.Completed,
				Samples:      e.AccData,
			})
		}

		var unknown []string
		for label := range doc.Entries {
			if !activity.ParseLabel(label).Known() {
				unknown = append(unknown, label)
			}
		}
		sort.Strings(unknown)
		for _, label := range unknown {
			out.Unrecognized = append(out.Unrecognized, Unrecognized{
				DocumentID: doc.ID, Label: label, Reason: ReasonUnknownActivity,
			})
		}
	}

	for _, u := range out.Unrecognized {
		slog.Warn("unrecognized_activity", "document_id", u.DocumentID, "label", u.Label, "reason", u.Reason)
	}
	return out
}

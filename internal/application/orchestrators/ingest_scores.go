package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"balancehealth/internal/domain/activity"
	"balancehealth/internal/domain/score"
)

// ScoreStoreForIngest defines the store interface needed by IngestScores.
type ScoreStoreForIngest interface {
	Save(ctx context.Context, d score.Document) error
}

// IngestScoresInput carries one score document as uploaded by a device.
type IngestScoresInput struct {
	PatientEmail string
	Body         []byte
	Source       string // "api" or "kafka", for logging
}

// IngestScoresDeps holds dependencies for IngestScores.
type IngestScoresDeps struct {
	ScoreStore ScoreStoreForIngest
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteIngestScores decodes, validates and stores a score document.
// Entries with unknown labels are kept; they are reported when the document is flattened.
// PRE: Body is the JSON object of activity label to entry
// POST: Document persisted with a new ID and ReceivedAt = Now()
func ExecuteIngestScores(ctx context.Context, input IngestScoresInput, deps IngestScoresDeps) (score.Document, error) {
	entries, err := score.ParseEntries(input.Body)
	if err != nil {
		return score.Document{}, err
	}
	doc := score.Document{
		ID:           deps.GenerateID(),
		PatientEmail: strings.ToLower(strings.TrimSpace(input.PatientEmail)),
		ReceivedAt:   deps.Now(),
		Entries:      entries,
	}
	if err := doc.Validate(); err != nil {
		return score.Document{}, err
	}
	if err := deps.ScoreStore.Save(ctx, doc); err != nil {
		return score.Document{}, fmt.Errorf("ingest scores: %w", err)
	}

	unknown := 0
	for label := range doc.Entries {
		if !activity.ParseLabel(label).Known() {
			unknown++
		}
	}
	slog.Info("score_event", "event", "document_ingested", "patient", doc.PatientEmail, "document_id", doc.ID,
		"entries", len(doc.Entries), "unknown_entries", unknown, "source", input.Source)
	return doc, nil
}

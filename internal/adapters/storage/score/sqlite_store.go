package score

import (
	"context"
	"fmt"

	"balancehealth/internal/adapters/storage"
	domain "balancehealth/internal/domain/score"
)

// SQLiteStore implements Store over database/sql. Documents are kept as their JSON body.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new score document store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts a document. Documents are immutable once received.
// PRE: entity has been validated and has an ID
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Document) error {
	body, err := entity.Body()
	if err != nil {
		return fmt.Errorf("score.Save: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO score_document (id, patient_email, received_at, body) VALUES (?, ?, ?, ?)",
		entity.ID, entity.PatientEmail, storage.FormatTime(entity.ReceivedAt), string(body),
	)
	return storage.Wrap("score.Save", err)
}

// ListByPatient returns a patient's documents in the order they were received.
// PRE: patientEmail is non-empty
// POST: Returns an empty slice when the patient has no documents
func (s *SQLiteStore) ListByPatient(ctx context.Context, patientEmail string) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, patient_email, received_at, body FROM score_document WHERE patient_email = ? ORDER BY received_at, id",
		patientEmail,
	)
	if err != nil {
		return nil, storage.Wrap("score.ListByPatient", err)
	}
	defer rows.Close()

	results := []domain.Document{}
	for rows.Next() {
		var doc domain.Document
		var receivedAt, body string
		if err := rows.Scan(&doc.ID, &doc.PatientEmail, &receivedAt, &body); err != nil {
			return nil, storage.Wrap("score.ListByPatient", err)
		}
		doc.ReceivedAt, _ = storage.ParseTime(receivedAt)
		doc.Entries, err = domain.ParseEntries([]byte(body))
		if err != nil {
			return nil, fmt.Errorf("score document %s: %w", doc.ID, err)
		}
		results = append(results, doc)
	}
	return results, storage.Wrap("score.ListByPatient", rows.Err())
}

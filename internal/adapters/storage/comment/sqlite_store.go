package comment

import (
	"context"

	"balancehealth/internal/adapters/storage"
	domain "balancehealth/internal/domain/comment"
)

// SQLiteStore implements Store over database/sql.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new comment store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Save inserts a comment.
// PRE: entity has been validated and has an ID
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Comment) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO comment
		(id, patient_email, activity, comment_date, body, author_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entity.ID,
		entity.PatientEmail,
		entity.Activity,
		entity.Date,
		entity.Body,
		entity.AuthorID,
		storage.FormatTime(entity.CreatedAt),
	)
	return storage.Wrap("comment.Save", err)
}

// ListByPatientActivity returns one thread, newest date first.
// Comments on the same date are ordered newest first by creation time.
// PRE: patientEmail and activity are non-empty
// POST: Returns an empty slice when the thread has no comments
func (s *SQLiteStore) ListByPatientActivity(ctx context.Context, patientEmail, activity string) ([]domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, patient_email, activity, comment_date, body, author_id, created_at
		FROM comment WHERE patient_email = ? AND activity = ?
		ORDER BY comment_date DESC, created_at DESC, id`,
		patientEmail, activity,
	)
	if err != nil {
		return nil, storage.Wrap("comment.ListByPatientActivity", err)
	}
	defer rows.Close()

	results := []domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		var createdAt string
		if err := rows.Scan(&c.ID, &c.PatientEmail, &c.Activity, &c.Date, &c.Body, &c.AuthorID, &createdAt); err != nil {
			return nil, storage.Wrap("comment.ListByPatientActivity", err)
		}
		c.CreatedAt, _ = storage.ParseTime(createdAt)
		results = append(results, c)
	}
	return results, storage.Wrap("comment.ListByPatientActivity", rows.Err())
}

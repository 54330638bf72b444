package activity

import (
	"context"
	"fmt"

	"balancehealth/internal/adapters/storage"
	domain "balancehealth/internal/domain/activity"
)

// SQLiteStore implements Store over database/sql.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new activity store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByName retrieves a catalog entry.
// PRE: name is non-empty
// POST: Returns the entity, storage.ErrNotFound, or *storage.Error
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.Activity, error) {
	var a domain.Activity
	err := s.db.QueryRowContext(ctx,
		"SELECT name, description, time_limit FROM activity WHERE name = ?", name,
	).Scan(&a.Name, &a.Description, &a.TimeLimit)
	if err != nil {
		return domain.Activity{}, storage.Wrap("activity.GetByName", err)
	}
	return a, nil
}

// Create inserts a catalog entry. Catalog entries are never updated.
// PRE: entity has been validated
// POST: Entity is persisted, or ErrExists if the name is taken
func (s *SQLiteStore) Create(ctx context.Context, entity domain.Activity) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO activity (name, description, time_limit) VALUES (?, ?, ?) ON CONFLICT(name) DO NOTHING",
		entity.Name, entity.Description, entity.TimeLimit,
	)
	if err != nil {
		return storage.Wrap("activity.Create", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storage.Wrap("activity.Create", err)
	}
	if n == 0 {
		return fmt.Errorf("%q: %w", entity.Name, ErrExists)
	}
	return nil
}

// List returns the catalog ordered by name.
// POST: Returns an empty slice when the catalog is empty
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Activity, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, description, time_limit FROM activity ORDER BY name")
	if err != nil {
		return nil, storage.Wrap("activity.List", err)
	}
	defer rows.Close()

	results := []domain.Activity{}
	for rows.Next() {
		var a domain.Activity
		if err := rows.Scan(&a.Name, &a.Description, &a.TimeLimit); err != nil {
			return nil, storage.Wrap("activity.List", err)
		}
		results = append(results, a)
	}
	return results, storage.Wrap("activity.List", rows.Err())
}

// SaveAssignment upserts a patient's copy of a catalog entry.
// PRE: entity.PatientEmail and entity.Name are non-empty
// POST: Assignment is persisted (insert or update)
func (s *SQLiteStore) SaveAssignment(ctx context.Context, entity domain.Assignment) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO patient_activity
		(patient_email, activity_name, description, time_limit) VALUES (?, ?, ?, ?)
		ON CONFLICT(patient_email, activity_name) DO UPDATE SET
		description=excluded.description,
		time_limit=excluded.time_limit`,
		entity.PatientEmail, entity.Name, entity.Description, entity.TimeLimit,
	)
	return storage.Wrap("activity.SaveAssignment", err)
}

// ListAssignments returns a patient's assigned activities ordered by name.
// PRE: patientEmail is non-empty
// POST: Returns an empty slice when nothing is assigned
func (s *SQLiteStore) ListAssignments(ctx context.Context, patientEmail string) ([]domain.Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT patient_email, activity_name, description, time_limit FROM patient_activity WHERE patient_email = ? ORDER BY activity_name",
		patientEmail,
	)
	if err != nil {
		return nil, storage.Wrap("activity.ListAssignments", err)
	}
	defer rows.Close()

	results := []domain.Assignment{}
	for rows.Next() {
		var a domain.Assignment
		if err := rows.Scan(&a.PatientEmail, &a.Name, &a.Description, &a.TimeLimit); err != nil {
			return nil, storage.Wrap("activity.ListAssignments", err)
		}
		results = append(results, a)
	}
	return results, storage.Wrap("activity.ListAssignments", rows.Err())
}

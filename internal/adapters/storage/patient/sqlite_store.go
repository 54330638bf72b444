package patient

import (
	"context"

	"balancehealth/internal/adapters/storage"
	domain "balancehealth/internal/domain/patient"
)

const selectColumns = "SELECT staff_id, email, first_name, last_name, date_of_birth, condition, updated_at FROM patient"

// SQLiteStore implements Store over database/sql.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new patient store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves one of a staff member's patients by email.
// PRE: staffID and email are non-empty
// POST: Returns the entity, storage.ErrNotFound, or *storage.Error
func (s *SQLiteStore) Get(ctx context.Context, staffID, email string) (domain.Patient, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE staff_id = ? AND email = ?", staffID, email)
	entity, err := scanPatient(row.Scan)
	return entity, storage.Wrap("patient.Get", err)
}

// Save upserts a patient keyed by (StaffID, Email).
// PRE: entity has been normalized and validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Patient) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO patient
		(staff_id, email, first_name, last_name, date_of_birth, condition, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(staff_id, email) DO UPDATE SET
		first_name=excluded.first_name,
		last_name=excluded.last_name,
		date_of_birth=excluded.date_of_birth,
		condition=excluded.condition,
		updated_at=excluded.updated_at`,
		entity.StaffID,
		entity.Email,
		entity.FirstName,
		entity.LastName,
		entity.DateOfBirth,
		entity.Condition,
		storage.FormatTime(entity.UpdatedAt),
	)
	return storage.Wrap("patient.Save", err)
}

// ListByStaff returns a staff member's patients ordered by last then first name.
// PRE: staffID is non-empty
// POST: Returns an empty slice when the staff member has no patients
func (s *SQLiteStore) ListByStaff(ctx context.Context, staffID string) ([]domain.Patient, error) {
	rows, err := s.db.QueryContext(ctx, selectColumns+" WHERE staff_id = ? ORDER BY last_name, first_name, email", staffID)
	if err != nil {
		return nil, storage.Wrap("patient.ListByStaff", err)
	}
	defer rows.Close()

	results := []domain.Patient{}
	for rows.Next() {
		entity, err := scanPatient(rows.Scan)
		if err != nil {
			return nil, storage.Wrap("patient.ListByStaff", err)
		}
		results = append(results, entity)
	}
	return results, storage.Wrap("patient.ListByStaff", rows.Err())
}

// scanPatient extracts a Patient from a row scanner function.
func scanPatient(scan func(dest ...any) error) (domain.Patient, error) {
	var entity domain.Patient
	var updatedAt string
	err := scan(
		&entity.StaffID,
		&entity.Email,
		&entity.FirstName,
		&entity.LastName,
		&entity.DateOfBirth,
		&entity.Condition,
		&updatedAt,
	)
	if err != nil {
		return domain.Patient{}, err
	}
	entity.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return entity, nil
}

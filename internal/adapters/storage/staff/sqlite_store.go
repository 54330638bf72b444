package staff

import (
	"context"
	"database/sql"
	"strings"

	"balancehealth/internal/adapters/storage"
	domain "balancehealth/internal/domain/staff"
)

const selectColumns = "SELECT id, first_name, last_name, email, password_hash, created_at, failed_logins, locked_until FROM medical_staff"

// SQLiteStore implements Store over database/sql (SQLite or PostgreSQL through TimedDB).
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new staff store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves an account by its UID.
// PRE: id is non-empty
// POST: Returns the entity, storage.ErrNotFound, or *storage.Error
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	entity, err := scanAccount(row.Scan)
	return entity, storage.Wrap("staff.GetByID", err)
}

// GetByEmail retrieves an account by login email (case-insensitive).
// PRE: email is non-empty
// POST: Returns the entity, storage.ErrNotFound, or *storage.Error
func (s *SQLiteStore) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE email = ?", strings.ToLower(email))
	entity, err := scanAccount(row.Scan)
	return entity, storage.Wrap("staff.GetByEmail", err)
}

// Save inserts the account or updates its login bookkeeping.
// The profile columns are not rewritten once the row exists.
// PRE: entity has been validated
// POST: Entity is persisted
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Account) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO medical_staff
		(id, first_name, last_name, email, password_hash, created_at, failed_logins, locked_until)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		failed_logins=excluded.failed_logins,
		locked_until=excluded.locked_until`,
		entity.ID,
		entity.FirstName,
		entity.LastName,
		strings.ToLower(entity.Email),
		entity.PasswordHash,
		storage.FormatTime(entity.CreatedAt),
		entity.FailedLogins,
		storage.FormatTime(entity.LockedUntil),
	)
	return storage.Wrap("staff.Save", err)
}

// Count returns the total number of staff accounts.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM medical_staff").Scan(&count)
	return count, storage.Wrap("staff.Count", err)
}

// scanAccount extracts an Account from a row scanner function.
func scanAccount(scan func(dest ...any) error) (domain.Account, error) {
	var entity domain.Account
	var createdAt string
	var lockedUntil sql.NullString
	err := scan(
		&entity.ID,
		&entity.FirstName,
		&entity.LastName,
		&entity.Email,
		&entity.PasswordHash,
		&createdAt,
		&entity.FailedLogins,
		&lockedUntil,
	)
	if err != nil {
		return domain.Account{}, err
	}
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	if lockedUntil.Valid && lockedUntil.String != "" {
		entity.LockedUntil, _ = storage.ParseTime(lockedUntil.String)
	}
	return entity, nil
}

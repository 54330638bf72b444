package staff

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"balancehealth/internal/adapters/storage"
	domain "balancehealth/internal/domain/staff"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := storage.Open(storage.DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.MigrateDB(db, storage.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// TestSQLiteStore_SaveAndGet tests the insert, lookup and bookkeeping update paths.
func TestSQLiteStore_SaveAndGet(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	acct := domain.Account{
		ID:           "uid-1",
		FirstName:    "Ana",
		LastName:     "Ruiz",
		Email:        "Ana@Clinic.test",
		PasswordHash: "hash",
		CreatedAt:    created,
	}
	if err := store.Save(ctx, acct); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByEmail(ctx, "ana@clinic.test")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != "uid-1" || got.FirstName != "Ana" || !got.CreatedAt.Equal(created) {
		t.Errorf("unexpected account %+v", got)
	}
	if !got.LockedUntil.IsZero() {
		t.Errorf("LockedUntil = %v, want zero", got.LockedUntil)
	}

	locked := created.Add(time.Hour)
	got.FailedLogins = 5
	got.LockedUntil = locked
	got.FirstName = "Changed"
	if err := store.Save(ctx, got); err != nil {
		t.Fatalf("Save update: %v", err)
	}
	again, err := store.GetByID(ctx, "uid-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if again.FailedLogins != 5 || !again.LockedUntil.Equal(locked) {
		t.Errorf("bookkeeping not updated: %+v", again)
	}
	if again.FirstName != "Ana" {
		t.Errorf("profile should be immutable, got FirstName=%q", again.FirstName)
	}

	n, err := store.Count(ctx)
	if err != nil || n != 1 {
		t.Errorf("Count = %d, %v; want 1", n, err)
	}
}

// TestSQLiteStore_NotFound tests that missing accounts report storage.ErrNotFound.
func TestSQLiteStore_NotFound(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	if _, err := store.GetByID(context.Background(), "missing"); !storage.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetByEmail(context.Background(), "missing@clinic.test"); !storage.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

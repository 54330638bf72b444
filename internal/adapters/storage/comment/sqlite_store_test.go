package comment

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"balancehealth/internal/adapters/storage"
	domain "balancehealth/internal/domain/comment"
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

// TestSQLiteStore_ThreadOrder tests that a thread is returned newest date first.
func TestSQLiteStore_ThreadOrder(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	ctx := context.Background()
	created := time.Date(2024, 2, 3, 10, 0, 0, 0, time.UTC)

	comments := []domain.Comment{
		{ID: "c1", PatientEmail: "a@b.com", Activity: "General comments", Date: "2024-01-15", Body: "middle", AuthorID: "s1", CreatedAt: created},
		{ID: "c2", PatientEmail: "a@b.com", Activity: "General comments", Date: "2024-02-03", Body: "newest", AuthorID: "s1", CreatedAt: created},
		{ID: "c3", PatientEmail: "a@b.com", Activity: "General comments", Date: "2023-12-01", Body: "oldest", AuthorID: "s1", CreatedAt: created},
		{ID: "c4", PatientEmail: "a@b.com", Activity: "Tandem Stance", Date: "2024-03-01", Body: "other thread", AuthorID: "s1", CreatedAt: created},
		{ID: "c5", PatientEmail: "x@b.com", Activity: "General comments", Date: "2024-03-01", Body: "other patient", AuthorID: "s1", CreatedAt: created},
	}
	for _, c := range comments {
		if err := store.Save(ctx, c); err != nil {
			t.Fatalf("Save %s: %v", c.ID, err)
		}
	}

	thread, err := store.ListByPatientActivity(ctx, "a@b.com", "General comments")
	if err != nil {
		t.Fatalf("ListByPatientActivity: %v", err)
	}
	var bodies []string
	for _, c := range thread {
		bodies = append(bodies, c.Body)
	}
	want := []string{"newest", "middle", "oldest"}
	if len(bodies) != len(want) {
		t.Fatalf("bodies = %v, want %v", bodies, want)
	}
	for i := range want {
		if bodies[i] != want[i] {
			t.Errorf("bodies = %v, want %v", bodies, want)
			break
		}
	}
}

// TestSQLiteStore_EmptyThread tests that an absent thread is an empty list, not an error.
func TestSQLiteStore_EmptyThread(t *testing.T) {
	store := NewSQLiteStore(openTestDB(t))
	thread, err := store.ListByPatientActivity(context.Background(), "a@b.com", "General comments")
	if err != nil {
		t.Fatalf("ListByPatientActivity: %v", err)
	}
	if thread == nil || len(thread) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", thread)
	}
}

package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"time"

	"balancehealth/internal/adapters/email"
	"balancehealth/internal/adapters/storage"
	activityStore "balancehealth/internal/adapters/storage/activity"
	"balancehealth/internal/domain/activity"
	"balancehealth/internal/domain/comment"
	"balancehealth/internal/domain/patient"
	"balancehealth/internal/domain/score"
	"balancehealth/internal/domain/staff"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

var errStoreDown = errors.New("store unavailable")

// mockStaffStore implements the staff store interfaces for testing.
type mockStaffStore struct {
	accounts map[string]staff.Account // keyed by email
	saveErr  error
	saves    int
}

func newMockStaffStore() *mockStaffStore {
	return &mockStaffStore{accounts: make(map[string]staff.Account)}
}

// GetByEmail implements StaffStoreForLogin.
// PRE: email is non-empty
// POST: returns account or storage.ErrNotFound
func (m *mockStaffStore) GetByEmail(_ context.Context, email string) (staff.Account, error) {
	a, ok := m.accounts[email]
	if !ok {
		return staff.Account{}, storage.Wrap("staff.GetByEmail", storage.ErrNotFound)
	}
	return a, nil
}

// Save implements StaffStoreForLogin.
// PRE: account is valid
// POST: account is persisted unless saveErr is set
func (m *mockStaffStore) Save(_ context.Context, a staff.Account) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.accounts[a.Email] = a
	return nil
}

// mockPatientStore implements PatientStoreForSave for testing.
type mockPatientStore struct {
	patients map[string]patient.Patient // keyed by staffID + "/" + email
	getErr   error
}

func newMockPatientStore() *mockPatientStore {
	return &mockPatientStore{patients: make(map[string]patient.Patient)}
}

// Get implements PatientStoreForSave.
// POST: returns patient, getErr, or storage.ErrNotFound
func (m *mockPatientStore) Get(_ context.Context, staffID, email string) (patient.Patient, error) {
	if m.getErr != nil {
		return patient.Patient{}, m.getErr
	}
	p, ok := m.patients[staffID+"/"+email]
	if !ok {
		return patient.Patient{}, storage.ErrNotFound
	}
	return p, nil
}

// Save implements PatientStoreForSave.
// POST: patient is upserted
func (m *mockPatientStore) Save(_ context.Context, p patient.Patient) error {
	m.patients[p.StaffID+"/"+p.Email] = p
	return nil
}

// mockActivityStore implements the activity store interfaces for testing.
type mockActivityStore struct {
	catalog     []activity.Activity
	assignments []activity.Assignment
}

// Create implements ActivityStoreForCreate.
// POST: appends the activity or returns activityStore.ErrExists
func (m *mockActivityStore) Create(_ context.Context, a activity.Activity) error {
	for _, existing := range m.catalog {
		if existing.Name == a.Name {
			return activityStore.ErrExists
		}
	}
	m.catalog = append(m.catalog, a)
	return nil
}

// List implements ActivityStoreForAssign.
func (m *mockActivityStore) List(_ context.Context) ([]activity.Activity, error) {
	return m.catalog, nil
}

// SaveAssignment implements ActivityStoreForAssign.
func (m *mockActivityStore) SaveAssignment(_ context.Context, a activity.Assignment) error {
	m.assignments = append(m.assignments, a)
	return nil
}

// mockCommentStore implements CommentStoreForAdd for testing.
type mockCommentStore struct {
	comments []comment.Comment
}

// Save implements CommentStoreForAdd.
func (m *mockCommentStore) Save(_ context.Context, c comment.Comment) error {
	m.comments = append(m.comments, c)
	return nil
}

// mockScoreStore implements ScoreStoreForIngest for testing.
type mockScoreStore struct {
	docs []score.Document
	err  error
}

// Save implements ScoreStoreForIngest.
func (m *mockScoreStore) Save(_ context.Context, d score.Document) error {
	if m.err != nil {
		return m.err
	}
	m.docs = append(m.docs, d)
	return nil
}

// mockSender records sent emails.
type mockSender struct {
	sent []email.SendRequest
	err  error
}

// Send implements email.Sender.
func (m *mockSender) Send(_ context.Context, req email.SendRequest) (email.SendResult, error) {
	if m.err != nil {
		return email.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return email.SendResult{MessageID: "msg-1", SentAt: fixedTime}, nil
}

package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"balancehealth/internal/domain/staff"
)

func seedStaff(t *testing.T, store *mockStaffStore, email, password string) staff.Account {
	t.Helper()
	a := staff.Account{ID: "staff-1", FirstName: "Ann", LastName: "Lee", Email: email, CreatedAt: fixedTime}
	if err := a.SetPassword(password); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	store.accounts[email] = a
	return a
}

// TestExecuteLogin_Success tests a valid login resets the failure counter.
func TestExecuteLogin_Success(t *testing.T) {
	store := newMockStaffStore()
	a := seedStaff(t, store, "ann@clinic.example", "correct-horse")
	a.FailedLogins = 2
	store.accounts[a.Email] = a

	res, err := ExecuteLogin(context.Background(), LoginInput{Email: " Ann@Clinic.example ", Password: "correct-horse"},
		LoginDeps{StaffStore: store, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.StaffID != "staff-1" || res.FullName != "Ann Lee" {
		t.Errorf("unexpected result %+v", res)
	}
	if store.accounts[a.Email].FailedLogins != 0 {
		t.Error("expected failed logins to be reset")
	}
}

// TestExecuteLogin_Failures tests unknown email, wrong password and empty input.
func TestExecuteLogin_Failures(t *testing.T) {
	tests := []struct {
		name  string
		input LoginInput
	}{
		{"unknown email", LoginInput{Email: "nobody@clinic.example", Password: "correct-horse"}},
		{"wrong password", LoginInput{Email: "ann@clinic.example", Password: "wrong-horse"}},
		{"empty", LoginInput{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStaffStore()
			seedStaff(t, store, "ann@clinic.example", "correct-horse")
			_, err := ExecuteLogin(context.Background(), tt.input, LoginDeps{StaffStore: store, Now: fixedNow})
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

// TestExecuteLogin_Lockout tests that MaxFailedLogins failures lock the account for LockoutDuration.
func TestExecuteLogin_Lockout(t *testing.T) {
	store := newMockStaffStore()
	seedStaff(t, store, "ann@clinic.example", "correct-horse")
	now := fixedTime
	deps := LoginDeps{StaffStore: store, Now: func() time.Time { return now }}

	for i := 0; i < staff.MaxFailedLogins; i++ {
		if _, err := ExecuteLogin(context.Background(), LoginInput{Email: "ann@clinic.example", Password: "nope-nope"}, deps); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
	}
	if _, err := ExecuteLogin(context.Background(), LoginInput{Email: "ann@clinic.example", Password: "correct-horse"}, deps); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}

	now = fixedTime.Add(staff.LockoutDuration + time.Second)
	if _, err := ExecuteLogin(context.Background(), LoginInput{Email: "ann@clinic.example", Password: "correct-horse"}, deps); err != nil {
		t.Fatalf("expected login after lockout, got %v", err)
	}
}

// TestExecuteLogin_ProfileMissing tests that a record without a profile cannot log in.
func TestExecuteLogin_ProfileMissing(t *testing.T) {
	store := newMockStaffStore()
	a := seedStaff(t, store, "ann@clinic.example", "correct-horse")
	a.FirstName = ""
	store.accounts[a.Email] = a

	_, err := ExecuteLogin(context.Background(), LoginInput{Email: a.Email, Password: "correct-horse"}, LoginDeps{StaffStore: store, Now: fixedNow})
	if !errors.Is(err, ErrProfileMissing) {
		t.Errorf("expected ErrProfileMissing, got %v", err)
	}
}

func registerInput() RegisterStaffInput {
	return RegisterStaffInput{
		FirstName: "Ann", LastName: "Lee", Email: "Ann@Clinic.example",
		Password: "correct-horse", ConfirmPassword: "correct-horse",
		LoginURL: "http://localhost:8080/login",
	}
}

// TestExecuteRegisterStaff_Valid tests persistence, normalisation and the welcome email.
func TestExecuteRegisterStaff_Valid(t *testing.T) {
	store := newMockStaffStore()
	sender := &mockSender{}
	acct, err := ExecuteRegisterStaff(context.Background(), registerInput(), RegisterStaffDeps{
		StaffStore: store, EmailSender: sender, GenerateID: fixedID, Now: fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acct.ID != "test-id-001" || acct.Email != "ann@clinic.example" {
		t.Errorf("unexpected account %+v", acct)
	}
	saved, ok := store.accounts["ann@clinic.example"]
	if !ok {
		t.Fatal("expected account to be persisted")
	}
	if err := saved.CheckPassword("correct-horse"); err != nil {
		t.Error("expected stored hash to verify")
	}
	if len(sender.sent) != 1 || !strings.Contains(sender.sent[0].HTML, "Ann Lee") {
		t.Errorf("expected one welcome email, got %+v", sender.sent)
	}
}

// TestExecuteRegisterStaff_Errors tests validation and uniqueness failures.
func TestExecuteRegisterStaff_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterStaffInput)
		want   error
	}{
		{"mismatch", func(in *RegisterStaffInput) { in.ConfirmPassword = "other-horse" }, ErrPasswordMismatch},
		{"short password", func(in *RegisterStaffInput) { in.Password, in.ConfirmPassword = "short", "short" }, staff.ErrPasswordTooShort},
		{"no first name", func(in *RegisterStaffInput) { in.FirstName = " " }, staff.ErrEmptyFirstName},
		{"bad email", func(in *RegisterStaffInput) { in.Email = "ann" }, staff.ErrInvalidEmail},
		{"duplicate", func(in *RegisterStaffInput) {}, ErrEmailAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockStaffStore()
			if tt.want == ErrEmailAlreadyExists {
				seedStaff(t, store, "ann@clinic.example", "correct-horse")
			}
			in := registerInput()
			tt.mutate(&in)
			_, err := ExecuteRegisterStaff(context.Background(), in, RegisterStaffDeps{StaffStore: store, GenerateID: fixedID, Now: fixedNow})
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestExecuteRegisterStaff_EmailFailureNotFatal tests that a failed welcome email still registers.
func TestExecuteRegisterStaff_EmailFailureNotFatal(t *testing.T) {
	store := newMockStaffStore()
	_, err := ExecuteRegisterStaff(context.Background(), registerInput(), RegisterStaffDeps{
		StaffStore: store, EmailSender: &mockSender{err: errors.New("smtp down")}, GenerateID: fixedID, Now: fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.accounts["ann@clinic.example"]; !ok {
		t.Error("expected account to be persisted")
	}
}

// TestExecuteRegisterStaff_StoreFailure tests that a provider error propagates.
func TestExecuteRegisterStaff_StoreFailure(t *testing.T) {
	store := newMockStaffStore()
	store.saveErr = errStoreDown
	_, err := ExecuteRegisterStaff(context.Background(), registerInput(), RegisterStaffDeps{StaffStore: store, GenerateID: fixedID, Now: fixedNow})
	if !errors.Is(err, errStoreDown) {
		t.Errorf("expected store error, got %v", err)
	}
}

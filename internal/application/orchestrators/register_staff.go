package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"balancehealth/internal/adapters/email"
	"balancehealth/internal/adapters/storage"
	"balancehealth/internal/domain/staff"
)

// StaffStoreForRegister defines the store interface needed by RegisterStaff.
type StaffStoreForRegister interface {
	GetByEmail(ctx context.Context, email string) (staff.Account, error)
	Save(ctx context.Context, a staff.Account) error
}

// RegisterStaffInput carries the registration form.
type RegisterStaffInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	LoginURL        string
}

// RegisterStaffDeps holds dependencies for RegisterStaff.
// EmailSender may be nil, in which case no welcome email is sent.
type RegisterStaffDeps struct {
	StaffStore  StaffStoreForRegister
	EmailSender email.Sender
	GenerateID  func() string
	Now         func() time.Time
}

var (
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailAlreadyExists = errors.New("an account with this email already exists")
)

// ExecuteRegisterStaff creates a medical staff account.
// PRE: Password equals ConfirmPassword and is >= staff.MinPasswordLength
// POST: Account persisted with a bcrypt hash; welcome email attempted
// INVARIANT: Email must be unique
func ExecuteRegisterStaff(ctx context.Context, input RegisterStaffInput, deps RegisterStaffDeps) (staff.Account, error) {
	if input.Password != input.ConfirmPassword {
		return staff.Account{}, ErrPasswordMismatch
	}

	acct := staff.Account{
		ID:        deps.GenerateID(),
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		CreatedAt: deps.Now(),
	}
	if err := acct.Validate(); err != nil {
		return staff.Account{}, err
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return staff.Account{}, err
	}

	_, err := deps.StaffStore.GetByEmail(ctx, acct.Email)
	switch {
	case err == nil:
		return staff.Account{}, ErrEmailAlreadyExists
	case !storage.IsNotFound(err):
		return staff.Account{}, fmt.Errorf("register staff: %w", err)
	}

	if err := deps.StaffStore.Save(ctx, acct); err != nil {
		return staff.Account{}, fmt.Errorf("register staff: %w", err)
	}
	slog.Info("auth_event", "event", "staff_registered", "email", acct.Email, "staff_id", acct.ID)

	if deps.EmailSender != nil {
		sendWelcome(ctx, deps.EmailSender, acct, input.LoginURL)
	}
	return acct, nil
}

func sendWelcome(ctx context.Context, sender email.Sender, acct staff.Account, loginURL string) {
	req, err := email.WelcomeMessage(acct.Email, acct.FullName(), loginURL)
	if err == nil {
		_, err = sender.Send(ctx, req)
	}
	if err != nil {
		slog.Warn("auth_event", "event", "welcome_email_failed", "email", acct.Email, "error", err)
	}
}

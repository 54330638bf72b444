package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"balancehealth/internal/domain/staff"
)

// StaffStoreForLogin defines the store interface needed by Login.
type StaffStoreForLogin interface {
	GetByEmail(ctx context.Context, email string) (staff.Account, error)
	Save(ctx context.Context, a staff.Account) error
}

// LoginInput carries input for the login orchestrator.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult carries the result of a successful login.
type LoginResult struct {
	StaffID  string
	Email    string
	FullName string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	StaffStore StaffStoreForLogin
	Now        func() time.Time
}

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts, try again later")
	ErrProfileMissing     = errors.New("could not authenticate user")
)

// ExecuteLogin validates credentials and returns staff info for session creation.
// PRE: Valid email and password provided
// POST: Returns staff info on success, records failed login on failure
// INVARIANT: Account must not be locked
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) (LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return LoginResult{}, ErrInvalidCredentials
	}
	now := deps.Now()

	acct, err := deps.StaffStore.GetByEmail(ctx, email)
	if err != nil {
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "not_found")
		return LoginResult{}, ErrInvalidCredentials
	}

	if acct.IsLocked(now) {
		slog.Info("auth_event", "event", "login_blocked", "email", email, "reason", "locked")
		return LoginResult{}, ErrAccountLocked
	}

	if err := acct.CheckPassword(input.Password); err != nil {
		acct.RecordFailedLogin(now)
		if err := deps.StaffStore.Save(ctx, acct); err != nil {
			slog.Error("auth_event", "event", "save_failed", "email", email, "error", err)
		}
		slog.Info("auth_event", "event", "login_failed", "email", email, "reason", "wrong_password", "failed_logins", acct.FailedLogins)
		return LoginResult{}, ErrInvalidCredentials
	}

	if err := acct.Validate(); err != nil {
		slog.Warn("auth_event", "event", "login_failed", "email", email, "reason", "profile_missing", "error", err)
		return LoginResult{}, ErrProfileMissing
	}

	if acct.FailedLogins > 0 || !acct.LockedUntil.IsZero() {
		acct.ResetFailedLogins()
		if err := deps.StaffStore.Save(ctx, acct); err != nil {
			slog.Error("auth_event", "event", "save_failed", "email", email, "error", err)
		}
	}

	slog.Info("auth_event", "event", "login_success", "email", email, "staff_id", acct.ID)

	return LoginResult{
		StaffID:  acct.ID,
		Email:    acct.Email,
		FullName: acct.FullName(),
	}, nil
}

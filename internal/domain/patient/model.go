package patient

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength      = 100
	MaxEmailLength     = 254
	MaxConditionLength = 500
)

// DateOfBirthLayout is the layout of DateOfBirth (HTML date input).
const DateOfBirthLayout = "2006-01-02"

// Domain errors
var (
	ErrEmptyStaffID    = errors.New("patient must belong to a staff member")
	ErrEmptyEmail      = errors.New("patient email cannot be empty")
	ErrInvalidEmail    = errors.New("patient email must contain '@'")
	ErrEmptyFirstName  = errors.New("patient first name cannot be empty")
	ErrEmptyLastName   = errors.New("patient last name cannot be empty")
	ErrNameTooLong     = errors.New("patient names cannot exceed 100 characters")
	ErrInvalidBirth    = errors.New("date of birth must be a valid date (YYYY-MM-DD)")
	ErrConditionLength = errors.New("condition cannot exceed 500 characters")
)

// Patient is a person under the care of one staff member.
// Email is the patient key within the owning staff member's records.
type Patient struct {
	StaffID     string
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth string
	Condition   string
	UpdatedAt   time.Time
}

// FullName joins first and last name for display.
func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Normalize trims whitespace and lower-cases the email key.
// POST: Email is lower-case; text fields have no surrounding whitespace
func (p *Patient) Normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.DateOfBirth = strings.TrimSpace(p.DateOfBirth)
	p.Condition = strings.TrimSpace(p.Condition)
}

// Validate checks if the Patient has valid data.
// PRE: Patient struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Patient) Validate() error {
	if p.StaffID == "" {
		return ErrEmptyStaffID
	}
	if p.Email == "" {
		return ErrEmptyEmail
	}
	if len(p.Email) > MaxEmailLength || !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	if p.FirstName == "" {
		return ErrEmptyFirstName
	}
	if p.LastName == "" {
		return ErrEmptyLastName
	}
	if len(p.FirstName) > MaxNameLength || len(p.LastName) > MaxNameLength {
		return ErrNameTooLong
	}
	if p.DateOfBirth != "" {
		if _, err := time.Parse(DateOfBirthLayout, p.DateOfBirth); err != nil {
			return ErrInvalidBirth
		}
	}
	if len(p.Condition) > MaxConditionLength {
		return ErrConditionLength
	}
	return nil
}

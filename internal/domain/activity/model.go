package activity

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 2000
	MaxTimeLimitSeconds  = 3600
)

// Domain errors
var (
	ErrEmptyName        = errors.New("activity name cannot be empty")
	ErrNameTooLong      = errors.New("activity name cannot exceed 100 characters")
	ErrReservedName     = errors.New("activity name is reserved")
	ErrDescriptionLong  = errors.New("activity description cannot exceed 2000 characters")
	ErrInvalidTimeLimit = errors.New("time limit must be between 1 and 3600 seconds")
	ErrEmptyPatient     = errors.New("assignment requires a patient email")
	ErrUnknown          = errors.New("unknown activity")
)

// Activity is an entry of the global balance-training catalog, keyed by Name.
type Activity struct {
	Name        string
	Description string
	TimeLimit   int // seconds
}

// Kind returns the balance activity this catalog entry describes.
func (a *Activity) Kind() Kind {
	return ParseLabel(a.Name)
}

// Validate checks if the Activity has valid data.
// PRE: Activity struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Activity) Validate() error {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if name == GeneralComments {
		return ErrReservedName
	}
	if len(a.Description) > MaxDescriptionLength {
		return ErrDescriptionLong
	}
	if a.TimeLimit < 1 || a.TimeLimit > MaxTimeLimitSeconds {
		return ErrInvalidTimeLimit
	}
	return nil
}

// Assignment is a catalog activity assigned to a patient.
// Keyed by (PatientEmail, Activity.Name); the catalog fields are copied at assignment time.
type Assignment struct {
	PatientEmail string
	Activity
}

// NewAssignment copies a catalog entry onto a patient.
// PRE: patientEmail is non-empty
// POST: Returns the assignment or ErrEmptyPatient
func NewAssignment(patientEmail string, a Activity) (Assignment, error) {
	if strings.TrimSpace(patientEmail) == "" {
		return Assignment{}, ErrEmptyPatient
	}
	return Assignment{PatientEmail: patientEmail, Activity: a}, nil
}

// Defaults is the catalog seeded at startup: one entry per known Kind.
func Defaults() []Activity {
	return []Activity{
		{Name: LabelFeetTogether, Description: "Stand upright with both feet touching, arms by your sides.", TimeLimit: 30},
		{Name: LabelTandem, Description: "Place one foot directly in front of the other, heel touching toe.", TimeLimit: 30},
		{Name: LabelInstep, Description: "Place the heel of one foot against the instep of the other.", TimeLimit: 30},
		{Name: LabelOneFoot, Description: "Lift one foot off the ground and hold the position.", TimeLimit: 30},
	}
}

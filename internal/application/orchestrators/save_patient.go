package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"balancehealth/internal/adapters/storage"
	"balancehealth/internal/domain/activity"
	"balancehealth/internal/domain/patient"
)

// PatientStoreForSave defines the store interface needed by SavePatient.
type PatientStoreForSave interface {
	Get(ctx context.Context, staffID, email string) (patient.Patient, error)
	Save(ctx context.Context, p patient.Patient) error
}

// ActivityStoreForAssign defines the catalog access needed to assign activities.
type ActivityStoreForAssign interface {
	List(ctx context.Context) ([]activity.Activity, error)
	SaveAssignment(ctx context.Context, a activity.Assignment) error
}

// SavePatientInput carries the patient form.
type SavePatientInput struct {
	StaffID     string
	FirstName   string
	LastName    string
	Email       string
	DateOfBirth string
	Condition   string
}

// SavePatientResult reports what the upsert did.
type SavePatientResult struct {
	Patient  patient.Patient
	Created  bool
	Assigned int
}

// SavePatientDeps holds dependencies for SavePatient.
type SavePatientDeps struct {
	PatientStore  PatientStoreForSave
	ActivityStore ActivityStoreForAssign
	Now           func() time.Time
}

// ExecuteSavePatient creates or updates a patient owned by the staff member.
// A newly created patient is assigned every catalog activity.
// PRE: StaffID is the authenticated staff member
// POST: Patient persisted under (StaffID, Email)
func ExecuteSavePatient(ctx context.Context, input SavePatientInput, deps SavePatientDeps) (SavePatientResult, error) {
	p := patient.Patient{
		StaffID:     input.StaffID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		DateOfBirth: input.DateOfBirth,
		Condition:   input.Condition,
		UpdatedAt:   deps.Now(),
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return SavePatientResult{}, err
	}

	_, err := deps.PatientStore.Get(ctx, p.StaffID, p.Email)
	created := storage.IsNotFound(err)
	if err != nil && !created {
		return SavePatientResult{}, fmt.Errorf("save patient: %w", err)
	}

	if err := deps.PatientStore.Save(ctx, p); err != nil {
		return SavePatientResult{}, fmt.Errorf("save patient: %w", err)
	}

	result := SavePatientResult{Patient: p, Created: created}
	if created {
		n, err := assignCatalog(ctx, deps.ActivityStore, p.Email)
		if err != nil {
			return result, err
		}
		result.Assigned = n
	}

	slog.Info("patient_event", "event", "patient_saved", "staff_id", p.StaffID, "email", p.Email, "created", created, "assigned", result.Assigned)
	return result, nil
}

// assignCatalog copies every catalog activity onto the patient.
func assignCatalog(ctx context.Context, store ActivityStoreForAssign, email string) (int, error) {
	catalog, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("assign activities: %w", err)
	}
	for _, a := range catalog {
		asg, err := activity.NewAssignment(email, a)
		if err != nil {
			return 0, err
		}
		if err := store.SaveAssignment(ctx, asg); err != nil {
			return 0, fmt.Errorf("assign activity %q: %w", a.Name, err)
		}
	}
	return len(catalog), nil
}

package orchestrators

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"balancehealth/internal/adapters/storage"
	activityStore "balancehealth/internal/adapters/storage/activity"
	"balancehealth/internal/domain/activity"
	"balancehealth/internal/domain/patient"
	"balancehealth/internal/domain/score"
)

// ActivityStoreForSeed defines the store interface needed by SeedActivities.
type ActivityStoreForSeed interface {
	Create(ctx context.Context, a activity.Activity) error
}

// ExecuteSeedActivities inserts the four known balance activities into the catalog.
// POST: Each default activity exists; existing entries are left untouched
func ExecuteSeedActivities(ctx context.Context, store ActivityStoreForSeed) error {
	created := 0
	for _, a := range activity.Defaults() {
		err := store.Create(ctx, a)
		if errors.Is(err, activityStore.ErrExists) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed activity %q: %w", a.Name, err)
		}
		created++
	}
	if created > 0 {
		slog.Info("activity_event", "event", "catalog_seeded", "created", created)
	}
	return nil
}

// Demo account seeded outside production.
const (
	DemoStaffEmail    = "demo@balancehealth.example"
	DemoStaffPassword = "balance-demo"
)

// SyntheticSeedDeps holds the stores needed for demo data seeding.
type SyntheticSeedDeps struct {
	StaffStore    StaffStoreForRegister
	PatientStore  PatientStoreForSave
	ActivityStore ActivityStoreForAssign
	ScoreStore    ScoreStoreForIngest
	CommentStore  CommentStoreForAdd
	GenerateID    func() string
	Now           func() time.Time
}

var demoPatients = []SavePatientInput{
	{FirstName: "Aroha", LastName: "Ngata", Email: "aroha@patients.example", DateOfBirth: "1948-04-12", Condition: "Post-stroke balance rehabilitation"},
	{FirstName: "Bill", LastName: "Thompson", Email: "bill@patients.example", DateOfBirth: "1952-09-30", Condition: "Peripheral neuropathy"},
	{FirstName: "Mei", LastName: "Chen", Email: "mei@patients.example", DateOfBirth: "1960-01-05", Condition: "Vestibular disorder"},
}

// ExecuteSeedSynthetic creates a demo staff account with patients, score history and comments.
// PRE: The activity catalog has been seeded
// POST: Demo data exists; a second run is a no-op
func ExecuteSeedSynthetic(ctx context.Context, deps SyntheticSeedDeps) error {
	_, err := deps.StaffStore.GetByEmail(ctx, DemoStaffEmail)
	if err == nil {
		return nil
	}
	if !storage.IsNotFound(err) {
		return err
	}

	acct, err := ExecuteRegisterStaff(ctx, RegisterStaffInput{
		FirstName: "Demo", LastName: "Clinician", Email: DemoStaffEmail,
		Password: DemoStaffPassword, ConfirmPassword: DemoStaffPassword,
	}, RegisterStaffDeps{StaffStore: deps.StaffStore, GenerateID: deps.GenerateID, Now: deps.Now})
	if err != nil {
		return fmt.Errorf("seed demo staff: %w", err)
	}

	rng := rand.New(rand.NewPCG(7, 11))
	today := deps.Now().UTC()
	for i, in := range demoPatients {
		in.StaffID = acct.ID
		res, err := ExecuteSavePatient(ctx, in, SavePatientDeps{
			PatientStore: deps.PatientStore, ActivityStore: deps.ActivityStore, Now: deps.Now,
		})
		if err != nil {
			return fmt.Errorf("seed patient %s: %w", in.Email, err)
		}
		if err := seedScores(ctx, deps, res.Patient, today, 10+5*i, rng); err != nil {
			return err
		}
		if _, err := ExecuteAddComment(ctx, AddCommentInput{
			PatientEmail: res.Patient.Email,
			Activity:     activity.GeneralComments,
			Body:         "Initial assessment completed. **Focus:** static balance.",
			AuthorID:     acct.ID,
		}, AddCommentDeps{
			PatientStore:  deps.PatientStore,
			ActivityStore: deps.ActivityStore,
			CommentStore:  deps.CommentStore,
			GenerateID:    deps.GenerateID,
			Now:           deps.Now,
		}); err != nil {
			return err
		}
	}

	slog.Info("seed_event", "event", "synthetic_seeded", "staff", DemoStaffEmail, "patients", len(demoPatients))
	return nil
}

// seedScores stores one document per day over the last days, one entry per known activity.
func seedScores(ctx context.Context, deps SyntheticSeedDeps, p patient.Patient, today time.Time, days int, rng *rand.Rand) error {
	for d := days - 1; d >= 0; d-- {
		date := today.AddDate(0, 0, -d).Format(score.DateLayout)
		entries := make(map[string]score.Entry, len(activity.Kinds))
		for k, kind := range activity.Kinds {
			samples := syntheticSignal(rng, 50, 0.2+0.1*float64(k))
			minV, maxV, sum := math.Inf(1), math.Inf(-1), 0.0
			for _, v := range samples {
				minV, maxV, sum = math.Min(minV, v), math.Max(maxV, v), sum+v
			}
			entries[kind.Label()] = score.Entry{
				ActivityName: kind.Label(),
				DateSet:      date,
				MaxValue:     round3(maxV),
				MinValue:     round3(minV),
				AvgValue:     round3(sum / float64(len(samples))),
				Completed:    rng.Float64() > 0.15*float64(k+1),
				AccData:      samples,
			}
		}
		body, err := json.Marshal(entries)
		if err != nil {
			return err
		}
		if _, err := ExecuteIngestScores(ctx, IngestScoresInput{PatientEmail: p.Email, Body: body, Source: "seed"}, IngestScoresDeps{
			ScoreStore: deps.ScoreStore, GenerateID: deps.GenerateID, Now: deps.Now,
		}); err != nil {
			return fmt.Errorf("seed scores %s: %w", p.Email, err)
		}
	}
	return nil
}

func syntheticSignal(rng *rand.Rand, n int, amplitude float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = round3(amplitude*math.Sin(float64(i)/4) + 0.05*rng.NormFloat64())
	}
	return out
}

func round3(x float64) float64 {
	return math.Round(x*1000) / 1000
}

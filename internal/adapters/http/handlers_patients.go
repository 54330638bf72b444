package web

import (
	"log/slog"
	"net/http"
	"strings"

	"balancehealth/internal/adapters/http/middleware"
	"balancehealth/internal/adapters/storage"
	"balancehealth/internal/application/listutil"
	"balancehealth/internal/application/orchestrators"
	"balancehealth/internal/application/projections"
	"balancehealth/internal/domain/activity"
	"balancehealth/internal/domain/patient"
)

// Notices shown by the patient pages.
const (
	noticePatientSaved    = "Patient details saved."
	noticeSelectPatient   = "Select a patient first."
	noticePatientNotFound = "Patient not found."
	noticeNoPatientChosen = "Choose a patient from the list."
)

// currentSession returns the session attached by Auth. Routes behind RequireStaff always have one.
func currentSession(r *http.Request) middleware.Session {
	sess, _ := middleware.GetSessionFromContext(r.Context())
	return sess
}

// patientForm reads the patient fields shared by create and edit.
func patientForm(r *http.Request, staffID string) orchestrators.SavePatientInput {
	return orchestrators.SavePatientInput{
		StaffID:     staffID,
		FirstName:   r.FormValue("first_name"),
		LastName:    r.FormValue("last_name"),
		Email:       r.FormValue("email"),
		DateOfBirth: r.FormValue("date_of_birth"),
		Condition:   r.FormValue("condition"),
	}
}

func savePatient(r *http.Request, input orchestrators.SavePatientInput) (orchestrators.SavePatientResult, error) {
	return orchestrators.ExecuteSavePatient(r.Context(), input, orchestrators.SavePatientDeps{
		PatientStore:  stores.PatientStore,
		ActivityStore: stores.ActivityStore,
		Now:           timeNow,
	})
}

// handleCreatePatient handles GET (form) and POST (upsert) for /create_patient
func handleCreatePatient(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		renderTemplate(w, r, "create_patient.html", map[string]any{
			"Patient": orchestrators.SavePatientInput{},
		})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input := patientForm(r, currentSession(r).StaffID)
		if _, err := savePatient(r, input); err != nil {
			renderTemplate(w, r, "create_patient.html", map[string]any{
				"Patient": input,
				"Error":   notice("create_patient", err),
			})
			return
		}
		flasher.Add(w, r, middleware.FlashSuccess, noticePatientSaved)
		http.Redirect(w, r, "/create_patient", http.StatusSeeOther)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// handleEditPatient handles /edit_patient.
// POST with a non-empty "results" loads that patient into the form;
// POST with an empty "results" saves the submitted form.
func handleEditPatient(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w, "GET, POST")
		return
	}
	sess := currentSession(r)
	data := map[string]any{"Patient": orchestrators.SavePatientInput{}}

	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		if selected := strings.TrimSpace(r.FormValue("results")); selected != "" {
			p, err := stores.PatientStore.Get(r.Context(), sess.StaffID, selected)
			switch {
			case err == nil:
				data["Patient"] = orchestrators.SavePatientInput{
					FirstName: p.FirstName, LastName: p.LastName, Email: p.Email,
					DateOfBirth: p.DateOfBirth, Condition: p.Condition,
				}
				data["Loaded"] = true
			case storage.IsNotFound(err):
				data["Error"] = noticePatientNotFound
			default:
				data["Error"] = notice("edit_patient", err)
			}
		} else {
			input := patientForm(r, sess.StaffID)
			if _, err := savePatient(r, input); err != nil {
				data["Patient"] = input
				data["Loaded"] = true
				data["Error"] = notice("edit_patient", err)
			} else {
				flasher.Add(w, r, middleware.FlashSuccess, noticePatientSaved)
				http.Redirect(w, r, "/edit_patient", http.StatusSeeOther)
				return
			}
		}
	}

	data["Patients"] = listPatients(r, sess, data)
	renderTemplate(w, r, "edit_patient.html", data)
}

// listPatients loads the staff member's patients; a storage failure becomes the page error.
func listPatients(r *http.Request, sess middleware.Session, data map[string]any) []patient.Patient {
	list, err := projections.QueryGetPatients(r.Context(), projections.GetPatientsQuery{StaffID: sess.StaffID},
		projections.GetPatientsDeps{PatientStore: stores.PatientStore})
	if err != nil {
		if _, set := data["Error"]; !set {
			data["Error"] = notice("list_patients", err)
		}
		return []patient.Patient{}
	}
	return list
}

// handleViewPatients lists patients; POST selects one for this session
func handleViewPatients(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		params := listutil.Parse(r.URL.Query(), projections.PatientSortColumns)
		list, err := projections.QueryListPatients(r.Context(), projections.ListPatientsQuery{
			StaffID: currentSession(r).StaffID,
			Params:  params,
		}, projections.GetPatientsDeps{PatientStore: stores.PatientStore})
		data := map[string]any{"List": list}
		if err != nil {
			data["Error"] = notice("list_patients", err)
		}
		renderTemplate(w, r, "view_patients.html", data)

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		email := strings.ToLower(strings.TrimSpace(r.FormValue("user_email")))
		if email == "" {
			flasher.Add(w, r, middleware.FlashError, noticeNoPatientChosen)
			http.Redirect(w, r, "/view_patients", http.StatusSeeOther)
			return
		}
		sessions.SelectPatient(currentSession(r).Token, email)
		http.Redirect(w, r, "/patient_details", http.StatusSeeOther)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// selectedPatient returns the session's patient, redirecting to /view_patients when none is chosen.
func selectedPatient(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess := currentSession(r)
	if sess.PatientEmail == "" {
		flasher.Add(w, r, middleware.FlashWarning, noticeSelectPatient)
		http.Redirect(w, r, "/view_patients", http.StatusSeeOther)
		return sess, false
	}
	return sess, true
}

// patientMissing redirects to /view_patients when err marks an unknown patient.
func patientMissing(w http.ResponseWriter, r *http.Request, err error) bool {
	if !storage.IsNotFound(err) {
		return false
	}
	flasher.Add(w, r, middleware.FlashError, noticePatientNotFound)
	http.Redirect(w, r, "/view_patients", http.StatusSeeOther)
	return true
}

// handlePatientDetails shows the selected patient; POST "activity" picks the comment thread
func handlePatientDetails(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w, "GET, POST")
		return
	}
	sess, ok := selectedPatient(w, r)
	if !ok {
		return
	}

	thread := activity.GeneralComments
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		key := r.FormValue("activity")
		if label, known := activity.CommentThread(key); known {
			thread = label
		} else {
			slog.Warn("comment_event", "event", "unknown_thread", "form_key", key)
		}
	}

	result, err := projections.QueryGetPatientDetails(r.Context(), projections.GetPatientDetailsQuery{
		StaffID:      sess.StaffID,
		PatientEmail: sess.PatientEmail,
		Thread:       thread,
	}, projections.GetPatientDetailsDeps{
		PatientStore:  stores.PatientStore,
		ActivityStore: stores.ActivityStore,
		CommentStore:  stores.CommentStore,
	})
	if patientMissing(w, r, err) {
		return
	}
	data := map[string]any{
		"Result":  result,
		"Threads": commentThreads(),
	}
	if err != nil {
		if !isStorageFailure(err) {
			internalError(w, err)
			return
		}
		data["Error"] = notice("patient_details", err)
	}
	renderTemplate(w, r, "patient_details.html", data)
}

// threadOption is one entry of the comment-thread selector.
type threadOption struct {
	Key   string
	Label string
}

func commentThreads() []threadOption {
	opts := []threadOption{{Key: activity.GeneralFormKey, Label: activity.GeneralComments}}
	for _, k := range activity.Kinds {
		opts = append(opts, threadOption{Key: k.FormKey(), Label: k.Label()})
	}
	return opts
}

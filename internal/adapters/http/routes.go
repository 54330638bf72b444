package web

import (
	"net/http"

	"balancehealth/internal/adapters/http/middleware"
)

// registerRoutes maps every path to its handler. Handlers check the method themselves.
func registerRoutes(mux *http.ServeMux) {
	staff := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireStaff(flasher)(h)
	}

	mux.HandleFunc("/", handleRoot)
	mux.HandleFunc("/login", handleLogin)
	mux.HandleFunc("/logout", handleLogout)
	mux.HandleFunc("/register", handleRegister)

	mux.Handle("/welcome", staff(handleWelcome))
	mux.Handle("/create_patient", staff(handleCreatePatient))
	mux.Handle("/edit_patient", staff(handleEditPatient))
	mux.Handle("/view_patients", staff(handleViewPatients))
	mux.Handle("/patient_details", staff(handlePatientDetails))
	mux.Handle("/create_activity", staff(handleCreateActivity))
	mux.Handle("/view_activities", staff(handleViewActivities))
	mux.Handle("/view_activity_progress", staff(handleActivityProgress))
	mux.Handle("/view_selected_activity/{activity}", staff(handleSelectedActivity))
	mux.Handle("/charts/{key...}", staff(handleChart))
	mux.Handle("/debug/perf", staff(handlePerf))

	// Devices authenticate with a bearer token instead of a session.
	mux.HandleFunc("/api/scores", handleAPIScores)
}

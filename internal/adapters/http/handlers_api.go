package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"balancehealth/internal/adapters/devicetoken"
	"balancehealth/internal/application/orchestrators"
)

// maxScoreBody bounds a device upload.
const maxScoreBody = 8 << 20

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleAPIScores accepts one score document from a patient device.
// The bearer token's subject names the patient.
func handleAPIScores(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, "POST")
		return
	}
	raw, ok := devicetoken.FromHeader(r.Header.Get("Authorization"))
	if !ok {
		w.Header().Set("WWW-Authenticate", `Bearer realm="balancehealth"`)
		writeJSONError(w, http.StatusUnauthorized, "missing bearer token")
		return
	}
	patientEmail, err := devicetoken.Verify(deviceSecret, raw)
	if err != nil {
		slog.Warn("score_event", "event", "token_rejected", "error", err)
		w.Header().Set("WWW-Authenticate", `Bearer realm="balancehealth", error="invalid_token"`)
		writeJSONError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "content type must be application/json")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxScoreBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "score document too large")
			return
		}
		writeJSONError(w, http.StatusBadRequest, "could not read body")
		return
	}

	doc, err := orchestrators.ExecuteIngestScores(r.Context(), orchestrators.IngestScoresInput{
		PatientEmail: patientEmail,
		Body:         body,
		Source:       "api",
	}, orchestrators.IngestScoresDeps{
		ScoreStore: stores.ScoreStore,
		GenerateID: generateID,
		Now:        timeNow,
	})
	if err != nil {
		if isStorageFailure(err) {
			internalError(w, err)
			return
		}
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      doc.ID,
		"entries": len(doc.Entries),
	})
}

// handlePerf returns the timing snapshot; ?minutes= sets the window (default 60)
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	if perfCollector == nil {
		http.NotFound(w, r)
		return
	}
	minutes := 60
	if v, err := strconv.Atoi(r.URL.Query().Get("minutes")); err == nil && v > 0 {
		minutes = v
	}
	since := timeNow().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(since, 20))
}

package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"balancehealth/internal/adapters/devicetoken"
)

const scoreBody = `{"Tandem Stance": {"activityName": "Tandem Stance", "date_set": "2026-03-01",
	"max_value": 1.2, "min_value": 0.1, "avg_value": 0.6, "completed": true, "acc_data": [0.1, 0.3, 0.2]}}`

func scoreRequest(token, contentType, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/scores", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func deviceToken(t *testing.T, secret []byte, email string) string {
	t.Helper()
	token, err := devicetoken.Issue(secret, email, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

// TestAPIScores_Stored tests an authenticated upload through the full middleware chain.
func TestAPIScores_Stored(t *testing.T) {
	a := newTestApp(t)
	rr := a.serve(scoreRequest(deviceToken(t, testKey, testPatientEmail), "application/json", scoreBody))
	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, body: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		ID      string `json:"id"`
		Entries int    `json:"entries"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID == "" || resp.Entries != 1 {
		t.Errorf("response = %+v", resp)
	}

	docs, err := a.stores.ScoreStore.ListByPatient(context.Background(), testPatientEmail)
	if err != nil || len(docs) != 1 {
		t.Fatalf("docs = %v, err = %v", docs, err)
	}
	if e := docs[0].Entries["Tandem Stance"]; !e.Completed || len(e.AccData) != 3 {
		t.Errorf("stored entry = %+v", e)
	}
}

// TestAPIScores_Rejected tests authentication, content type and body errors.
func TestAPIScores_Rejected(t *testing.T) {
	a := newTestApp(t)
	valid := deviceToken(t, testKey, testPatientEmail)
	forged := deviceToken(t, []byte("another-secret-another-secret-32"), testPatientEmail)

	tests := []struct {
		name        string
		token       string
		contentType string
		body        string
		want        int
	}{
		{"missing token", "", "application/json", scoreBody, http.StatusUnauthorized},
		{"forged token", forged, "application/json", scoreBody, http.StatusUnauthorized},
		{"garbage token", "not.a.token", "application/json", scoreBody, http.StatusUnauthorized},
		{"not json", valid, "application/json", "scores!", http.StatusBadRequest},
		{"wrong content type", valid, "text/plain", scoreBody, http.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			handleAPIScores(rr, scoreRequest(tt.token, tt.contentType, tt.body))
			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d; body: %s", rr.Code, tt.want, rr.Body.String())
			}
			if tt.want == http.StatusUnauthorized && rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}

	docs, _ := a.stores.ScoreStore.ListByPatient(context.Background(), testPatientEmail)
	if len(docs) != 0 {
		t.Errorf("rejected uploads were stored: %d", len(docs))
	}
}

// TestAPIScores_TooLarge tests the body limit.
func TestAPIScores_TooLarge(t *testing.T) {
	newTestApp(t)
	body := `{"x": "` + strings.Repeat("a", maxScoreBody) + `"}`
	rr := httptest.NewRecorder()
	handleAPIScores(rr, scoreRequest(deviceToken(t, testKey, testPatientEmail), "application/json", body))
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rr.Code)
	}
}

// TestAPIScores_MethodNotAllowed tests that only POST is accepted.
func TestAPIScores_MethodNotAllowed(t *testing.T) {
	a := newTestApp(t)
	rr := a.serve(httptest.NewRequest(http.MethodGet, "/api/scores", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rr.Code)
	}
}

package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SessionTTL is how long a session stays valid after login.
const SessionTTL = 24 * time.Hour

// Session is the authentication state of one browser.
// PatientEmail is the patient selected on /view_patients, scoped to this session only.
type Session struct {
	ID           string
	Token        string
	StaffID      string
	Email        string
	FullName     string
	PatientEmail string
	CreatedAt    time.Time
}

// SessionStore is an in-memory session store.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create stores a new session and returns it.
// PRE: staffID, email are non-empty
// POST: Session is stored under a fresh random token; expired sessions are purged
func (ss *SessionStore) Create(staffID, email, fullName string) (Session, error) {
	token, err := generateToken()
	if err != nil {
		return Session{}, err
	}
	s := Session{
		ID:        uuid.NewString(),
		Token:     token,
		StaffID:   staffID,
		Email:     email,
		FullName:  fullName,
		CreatedAt: ss.now(),
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	for t, old := range ss.sessions {
		if s.CreatedAt.Sub(old.CreatedAt) > SessionTTL {
			delete(ss.sessions, t)
		}
	}
	ss.sessions[token] = s
	return s, nil
}

// Get retrieves a session by token.
// PRE: token is non-empty
// POST: Returns session if valid and not expired; expired sessions are removed
func (ss *SessionStore) Get(token string) (Session, bool) {
	ss.mu.RLock()
	session, ok := ss.sessions[token]
	ss.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if ss.now().Sub(session.CreatedAt) > SessionTTL {
		ss.Delete(token)
		return Session{}, false
	}
	return session, true
}

// Delete removes a session by token.
// POST: Session with given token is removed
func (ss *SessionStore) Delete(token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// SelectPatient records the selected patient on one session.
// PRE: token exists in the store
// POST: Only this session's PatientEmail changes
func (ss *SessionStore) SelectPatient(token, patientEmail string) bool {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	s, ok := ss.sessions[token]
	if !ok {
		return false
	}
	s.PatientEmail = patientEmail
	ss.sessions[token] = s
	return true
}

// Len returns the number of stored sessions.
func (ss *SessionStore) Len() int {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	return len(ss.sessions)
}

const sessionCookieName = "balance_session"

// Auth returns middleware that extracts the session from the cookie and sets it in context.
// It does NOT block unauthenticated requests; use RequireStaff for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if session, ok := sessions.Get(cookie.Value); ok {
					r = r.WithContext(ContextWithSession(r.Context(), session))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginRequiredNotice is flashed when an anonymous request reaches a protected page.
const LoginRequiredNotice = "You must be logged in to access webpage."

// RequireStaff returns middleware that redirects unauthenticated requests to /login
// with an error notice.
func RequireStaff(flash *Flasher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetSessionFromContext(r.Context()); !ok {
				flash.Add(w, r, FlashError, LoginRequiredNotice)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(Session)
	return session, ok
}

// ContextWithSession returns a context with the given session set.
func ContextWithSession(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	setCookie(w, sessionCookieName, token, int(SessionTTL.Seconds()), http.SameSiteStrictMode)
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	setCookie(w, sessionCookieName, "", -1, http.SameSiteStrictMode)
}

// setCookie writes an HttpOnly cookie scoped to the whole site.
// maxAge < 0 deletes it; maxAge == 0 makes it last for the browser session.
func setCookie(w http.ResponseWriter, name, value string, maxAge int, sameSite http.SameSite) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: sameSite,
	})
}

// SessionToken returns the raw session cookie value, if any.
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

package web

import (
	"errors"
	"log/slog"
	"net/http"

	"balancehealth/internal/adapters/http/middleware"
	"balancehealth/internal/application/orchestrators"
)

// Notices shown by the login and registration pages.
const (
	noticeInvalidLogin   = "Invalid email or password."
	noticeLocked         = "Account is locked after too many failed attempts. Try again later."
	noticeProfileMissing = "Could not authenticate user."
	noticeMismatch       = "Passwords do not match."
	noticeEmailTaken     = "An account with this email already exists."
	noticeRegistered     = "Registration successful. Please log in."
	noticeLoggedOut      = "You have been logged out."
)

// handleRoot sends visitors to the login page.
func handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleLogin handles GET (form) and POST (authenticate) for /login
func handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if _, ok := middleware.GetSessionFromContext(r.Context()); ok {
			http.Redirect(w, r, "/welcome", http.StatusSeeOther)
			return
		}
		renderTemplate(w, r, "login.html", map[string]any{"Email": ""})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input := orchestrators.LoginInput{
			Email:    r.FormValue("email"),
			Password: r.FormValue("password"),
		}
		result, err := orchestrators.ExecuteLogin(r.Context(), input, orchestrators.LoginDeps{
			StaffStore: stores.StaffStore,
			Now:        timeNow,
		})
		if err != nil {
			renderTemplate(w, r, "login.html", map[string]any{
				"Email": input.Email,
				"Error": loginNotice(err),
			})
			return
		}

		sess, err := sessions.Create(result.StaffID, result.Email, result.FullName)
		if err != nil {
			internalError(w, err)
			return
		}
		middleware.SetSessionCookie(w, sess.Token)
		slog.Info("auth_event", "event", "session_created", "staff_id", result.StaffID, "session_id", sess.ID)
		http.Redirect(w, r, "/welcome", http.StatusSeeOther)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func loginNotice(err error) string {
	switch {
	case errors.Is(err, orchestrators.ErrInvalidCredentials):
		return noticeInvalidLogin
	case errors.Is(err, orchestrators.ErrAccountLocked):
		return noticeLocked
	case errors.Is(err, orchestrators.ErrProfileMissing):
		return noticeProfileMissing
	default:
		return notice("login", err)
	}
}

// handleLogout ends the session and returns to /login
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		methodNotAllowed(w, "GET, POST")
		return
	}
	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	flasher.Add(w, r, middleware.FlashSuccess, noticeLoggedOut)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleRegister handles GET (form) and POST (create staff account) for /register
func handleRegister(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		renderTemplate(w, r, "register.html", map[string]any{})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		input := orchestrators.RegisterStaffInput{
			FirstName:       r.FormValue("first_name"),
			LastName:        r.FormValue("last_name"),
			Email:           r.FormValue("email"),
			Password:        r.FormValue("password"),
			ConfirmPassword: r.FormValue("confirm_password"),
			LoginURL:        loginURL(r),
		}
		_, err := orchestrators.ExecuteRegisterStaff(r.Context(), input, orchestrators.RegisterStaffDeps{
			StaffStore:  stores.StaffStore,
			EmailSender: emailSender,
			GenerateID:  generateID,
			Now:         timeNow,
		})
		if err != nil {
			msg := notice("register", err)
			switch {
			case errors.Is(err, orchestrators.ErrPasswordMismatch):
				msg = noticeMismatch
			case errors.Is(err, orchestrators.ErrEmailAlreadyExists):
				msg = noticeEmailTaken
			}
			renderTemplate(w, r, "register.html", map[string]any{
				"FirstName": input.FirstName,
				"LastName":  input.LastName,
				"Email":     input.Email,
				"Error":     msg,
			})
			return
		}
		flasher.Add(w, r, middleware.FlashSuccess, noticeRegistered)
		http.Redirect(w, r, "/login", http.StatusSeeOther)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func loginURL(r *http.Request) string {
	scheme := "http"
	if middleware.SecureCookies {
		scheme = "https"
	}
	return scheme + "://" + r.Host + "/login"
}

// handleWelcome shows the landing page after login
func handleWelcome(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	renderTemplate(w, r, "welcome.html", map[string]any{})
}

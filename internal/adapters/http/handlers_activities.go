package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"balancehealth/internal/adapters/http/middleware"
	activityStore "balancehealth/internal/adapters/storage/activity"
	"balancehealth/internal/application/orchestrators"
	"balancehealth/internal/domain/activity"
)

const (
	noticeActivityCreated = "Activity created."
	noticeActivityExists  = "An activity with this name already exists."
	noticeTimeLimit       = "Time limit must be a whole number of seconds."
)

// handleCreateActivity handles GET (form) and POST (create) for /create_activity
func handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		renderTemplate(w, r, "create_activity.html", map[string]any{})

	case http.MethodPost:
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		form := map[string]any{
			"Name":        r.FormValue("activity_name"),
			"Description": r.FormValue("description"),
			"TimeLimit":   r.FormValue("time_limit"),
		}
		limit, err := strconv.Atoi(strings.TrimSpace(r.FormValue("time_limit")))
		if err != nil {
			form["Error"] = noticeTimeLimit
			renderTemplate(w, r, "create_activity.html", form)
			return
		}

		_, err = orchestrators.ExecuteCreateActivity(r.Context(), orchestrators.CreateActivityInput{
			Name:        r.FormValue("activity_name"),
			Description: r.FormValue("description"),
			TimeLimit:   limit,
		}, orchestrators.CreateActivityDeps{ActivityStore: stores.ActivityStore})
		if err != nil {
			if errors.Is(err, activityStore.ErrExists) {
				form["Error"] = noticeActivityExists
			} else {
				form["Error"] = notice("create_activity", err)
			}
			renderTemplate(w, r, "create_activity.html", form)
			return
		}
		flasher.Add(w, r, middleware.FlashSuccess, noticeActivityCreated)
		http.Redirect(w, r, "/create_activity", http.StatusSeeOther)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

// handleViewActivities shows the activity catalog
func handleViewActivities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	data := map[string]any{"Activities": []activity.Activity{}}
	list, err := stores.ActivityStore.List(r.Context())
	if err != nil {
		data["Error"] = notice("view_activities", err)
	} else {
		data["Activities"] = list
	}
	renderTemplate(w, r, "view_activities.html", data)
}

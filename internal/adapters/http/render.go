package web

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"balancehealth/internal/adapters/http/middleware"
	"balancehealth/internal/adapters/http/perf"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set).
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// methodNotAllowed answers a request whose method the route does not serve.
func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	w.WriteHeader(http.StatusMethodNotAllowed)
}

func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// renderTemplate executes templates/name inside the layout.
// Pending flash notices are consumed and shown on this page.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	defer perfCollector.Time(perf.KindRender, "template."+name, time.Now())

	sess, loggedIn := middleware.GetSessionFromContext(r.Context())
	flashes := flasher.Pop(w, r)

	funcMap := template.FuncMap{
		"isLoggedIn":     func() bool { return loggedIn },
		"staffName":      func() string { return sess.FullName },
		"staffEmail":     func() string { return sess.Email },
		"csrfToken":      func() string { return csrf.Token(r) },
		"flashes":        func() []middleware.Flash { return flashes },
		"renderMarkdown": renderMarkdown,
		"day":            func(t time.Time) string { return t.Format("2006-01-02") },
		"yesNo": func(b bool) string {
			if b {
				return "Yes"
			}
			return "No"
		},
	}

	tpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html", "templates/partial_*.html", "templates/"+name)
	if err != nil {
		internalError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		internalError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// pageTemplates lists the templates renderTemplate accepts.
func pageTemplates() ([]string, error) {
	all, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	var pages []string
	for _, p := range all {
		name := strings.TrimPrefix(p, "templates/")
		if name != "layout.html" && !strings.HasPrefix(name, "partial_") {
			pages = append(pages, name)
		}
	}
	return pages, nil
}

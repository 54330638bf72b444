package web

import (
	"net/http"
	"time"

	"balancehealth/internal/adapters/artifact"
	"balancehealth/internal/adapters/chart"
	"balancehealth/internal/adapters/email"
	"balancehealth/internal/adapters/http/middleware"
	"balancehealth/internal/adapters/http/perf"
	activityStore "balancehealth/internal/adapters/storage/activity"
	commentStore "balancehealth/internal/adapters/storage/comment"
	patientStore "balancehealth/internal/adapters/storage/patient"
	scoreStore "balancehealth/internal/adapters/storage/score"
	staffStore "balancehealth/internal/adapters/storage/staff"
)

// Stores holds all storage dependencies.
type Stores struct {
	StaffStore    staffStore.Store
	PatientStore  patientStore.Store
	ActivityStore activityStore.Store
	ScoreStore    scoreStore.Store
	CommentStore  commentStore.Store
}

// Options configures NewMux.
type Options struct {
	CSRFKey        []byte
	FlashKey       []byte
	DeviceSecret   []byte
	Secure         bool
	TrustedOrigins []string
	SlowRequestMs  int
	Collector      *perf.Collector
	Artifacts      artifact.Store // nil selects an in-memory store
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global flash notice codec
var flasher *middleware.Flasher

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Chart rendering and per-request artifact storage.
var (
	charts    *chart.Renderer
	artifacts artifact.Store
)

// deviceSecret verifies bearer tokens on the device API.
var deviceSecret []byte

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender) {
	emailSender = sender
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, opts Options) http.Handler {
	stores = s
	perfCollector = opts.Collector
	sessions = middleware.NewSessionStore()
	flasher = middleware.NewFlasher(opts.FlashKey)
	charts = chart.NewRenderer(opts.Collector)
	deviceSecret = opts.DeviceSecret
	artifacts = opts.Artifacts
	if artifacts == nil {
		artifacts = artifact.NewMemoryStore(artifact.DefaultMemoryEntries)
	}
	middleware.SecureCookies = opts.Secure

	mux := http.NewServeMux()
	mux.Handle("/static/", http.FileServerFS(staticFS))
	registerRoutes(mux)

	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Timing runs first so every later stage sees the request ID.
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(opts.CSRFKey, opts.TrustedOrigins),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(opts.Collector, opts.SlowRequestMs, func(r *http.Request) string {
			_, pattern := mux.Handler(r)
			return pattern
		}),
	)
}

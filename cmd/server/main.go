package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"balancehealth/internal/adapters/artifact"
	emailPkg "balancehealth/internal/adapters/email"
	web "balancehealth/internal/adapters/http"
	"balancehealth/internal/adapters/http/perf"
	"balancehealth/internal/adapters/ingest"
	"balancehealth/internal/adapters/storage"
	activityStore "balancehealth/internal/adapters/storage/activity"
	commentStore "balancehealth/internal/adapters/storage/comment"
	patientStore "balancehealth/internal/adapters/storage/patient"
	scoreStore "balancehealth/internal/adapters/storage/score"
	staffStore "balancehealth/internal/adapters/storage/staff"
	"balancehealth/internal/application/orchestrators"
	"balancehealth/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("config_event", "event", "dotenv_unreadable", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_event", "event", "load_failed", "error", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	if err := run(cfg); err != nil {
		slog.Error("server_event", "event", "exit", "error", err)
		os.Exit(1)
	}
}

// setupLogging installs JSON logs in production and text logs elsewhere.
func setupLogging(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler).With("version", version))
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := storage.MigrateDB(db, cfg.DBDriver); err != nil {
		return err
	}
	slog.Info("storage_event", "event", "ready", "driver", cfg.DBDriver, "schema", storage.LatestSchemaVersion())

	// Queries and requests feed the same collector behind /debug/perf.
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, cfg.DBDriver, collector, cfg.SlowQueryMs)

	stores := &web.Stores{
		StaffStore:    staffStore.NewSQLiteStore(timedDB),
		PatientStore:  patientStore.NewSQLiteStore(timedDB),
		ActivityStore: activityStore.NewSQLiteStore(timedDB),
		ScoreStore:    scoreStore.NewSQLiteStore(timedDB),
		CommentStore:  commentStore.NewSQLiteStore(timedDB),
	}

	if err := orchestrators.ExecuteSeedActivities(ctx, stores.ActivityStore); err != nil {
		return err
	}
	if !cfg.IsProduction() {
		if err := orchestrators.ExecuteSeedSynthetic(ctx, orchestrators.SyntheticSeedDeps{
			StaffStore:    stores.StaffStore,
			PatientStore:  stores.PatientStore,
			ActivityStore: stores.ActivityStore,
			ScoreStore:    stores.ScoreStore,
			CommentStore:  stores.CommentStore,
			GenerateID:    newID,
			Now:           time.Now,
		}); err != nil {
			return err
		}
	}

	if cfg.ResendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom))
		slog.Info("email_event", "event", "sender_configured", "provider", "resend")
	} else {
		web.SetEmailSender(emailPkg.NewOutbox())
		if cfg.IsProduction() {
			slog.Warn("email_event", "event", "sender_disabled", "reason", "BALANCE_RESEND_KEY not set")
		}
	}

	var charts artifact.Store = artifact.NewMemoryStore(artifact.DefaultMemoryEntries)
	if cfg.ArtifactBucket != "" {
		client, err := artifact.NewS3Client(ctx)
		if err != nil {
			return err
		}
		charts = artifact.NewS3Store(client, cfg.ArtifactBucket, "charts")
		slog.Info("artifact_event", "event", "store_configured", "bucket", cfg.ArtifactBucket)
	}

	if len(cfg.KafkaBrokers) > 0 {
		open := func() ingest.MessageReader {
			return ingest.NewReader(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroup)
		}
		go func() {
			slog.Info("score_event", "event", "consumer_started", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
			ingest.Consume(ctx, open, func(ctx context.Context, patientEmail string, body []byte) error {
				_, err := orchestrators.ExecuteIngestScores(ctx, orchestrators.IngestScoresInput{
					PatientEmail: patientEmail,
					Body:         body,
					Source:       "kafka",
				}, orchestrators.IngestScoresDeps{
					ScoreStore: stores.ScoreStore,
					GenerateID: newID,
					Now:        time.Now,
				})
				return err
			})
		}()
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: web.NewMux(stores, web.Options{
			CSRFKey:       cfg.CSRFKey,
			FlashKey:      cfg.FlashKey,
			DeviceSecret:  cfg.DeviceSecret,
			Secure:        cfg.IsProduction(),
			SlowRequestMs: cfg.SlowRequestMs,
			Collector:     collector,
			Artifacts:     charts,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_event", "event", "listening", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server_event", "event", "shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newID() string {
	return uuid.NewString()
}

// Package config loads runtime settings from the environment.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// EnvProduction is the BALANCE_ENV value that enables strict checks.
const EnvProduction = "production"

// Defaults.
const (
	DefaultAddr          = ":8080"
	DefaultDBDriver      = "sqlite"
	DefaultDBDSN         = "balance.db"
	DefaultEmailFrom     = "Balance Health <noreply@balancehealth.example>"
	DefaultKafkaTopic    = "patient-scores"
	DefaultKafkaGroup    = "balancehealth"
	DefaultSlowRequestMs = 200
	DefaultSlowQueryMs   = 100
)

// keyBytes is the required length of the CSRF, flash and device keys.
const keyBytes = 32

// ErrMissingKey is returned in production when a required secret is unset.
var ErrMissingKey = errors.New("required key not set")

// Config holds every runtime setting of the server.
type Config struct {
	Env      string
	Addr     string
	DBDriver string
	DBDSN    string

	CSRFKey      []byte
	FlashKey     []byte
	DeviceSecret []byte

	ResendKey string
	EmailFrom string

	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroup   string

	ArtifactBucket string

	LogLevel      slog.Level
	SlowRequestMs int
	SlowQueryMs   int
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads the BALANCE_* environment variables.
// PRE: an optional .env file has already been loaded by the caller
// POST: outside production, unset keys are replaced by random ones
func Load() (*Config, error) {
	c := &Config{
		Env:            getEnv("BALANCE_ENV", "development"),
		Addr:           getEnv("BALANCE_ADDR", DefaultAddr),
		DBDriver:       getEnv("BALANCE_DB_DRIVER", DefaultDBDriver),
		DBDSN:          getEnv("BALANCE_DB_DSN", DefaultDBDSN),
		ResendKey:      os.Getenv("BALANCE_RESEND_KEY"),
		EmailFrom:      getEnv("BALANCE_EMAIL_FROM", DefaultEmailFrom),
		KafkaBrokers:   splitList(os.Getenv("BALANCE_KAFKA_BROKERS")),
		KafkaTopic:     getEnv("BALANCE_KAFKA_TOPIC", DefaultKafkaTopic),
		KafkaGroup:     getEnv("BALANCE_KAFKA_GROUP", DefaultKafkaGroup),
		ArtifactBucket: os.Getenv("BALANCE_ARTIFACT_BUCKET"),
		SlowRequestMs:  getEnvInt("BALANCE_SLOW_REQUEST_MS", DefaultSlowRequestMs),
		SlowQueryMs:    getEnvInt("BALANCE_SLOW_QUERY_MS", DefaultSlowQueryMs),
	}

	if err := c.LogLevel.UnmarshalText([]byte(getEnv("BALANCE_LOG_LEVEL", "INFO"))); err != nil {
		return nil, fmt.Errorf("BALANCE_LOG_LEVEL: %w", err)
	}

	var err error
	if c.CSRFKey, err = c.key("BALANCE_CSRF_KEY"); err != nil {
		return nil, err
	}
	if c.FlashKey, err = c.key("BALANCE_FLASH_KEY"); err != nil {
		return nil, err
	}
	if c.DeviceSecret, err = c.key("BALANCE_DEVICE_SECRET"); err != nil {
		return nil, err
	}
	return c, nil
}

// key decodes a 32-byte hex key. Outside production a missing key is generated.
func (c *Config) key(name string) ([]byte, error) {
	v := os.Getenv(name)
	if v == "" {
		if c.IsProduction() {
			return nil, fmt.Errorf("%s: %w", name, ErrMissingKey)
		}
		slog.Warn("config_event", "event", "generated_key", "key", name)
		return randomKey()
	}
	b, err := hex.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid hex: %w", name, err)
	}
	if len(b) != keyBytes {
		return nil, fmt.Errorf("%s: want %d bytes, got %d", name, keyBytes, len(b))
	}
	return b, nil
}

func randomKey() ([]byte, error) {
	b := make([]byte, keyBytes)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

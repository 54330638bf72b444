// Command devicetoken issues the bearer token a patient's device uses to upload scores.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"balancehealth/internal/adapters/devicetoken"
	"balancehealth/internal/config"
)

func main() {
	var (
		email string
		ttl   time.Duration
	)
	flag.StringVar(&email, "email", "", "patient email the token is issued for")
	flag.DurationVar(&ttl, "ttl", devicetoken.DefaultTTL, "token lifetime")
	flag.Parse()

	if strings.TrimSpace(email) == "" {
		fmt.Fprintln(os.Stderr, "usage: devicetoken -email patient@example.com [-ttl 720h]")
		os.Exit(2)
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env unreadable: %v\n", err)
	}
	if os.Getenv("BALANCE_DEVICE_SECRET") == "" {
		// config.Load would generate a throwaway secret the server never sees.
		fmt.Fprintln(os.Stderr, "BALANCE_DEVICE_SECRET must be set to the server's secret")
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	token, err := devicetoken.Issue(cfg.DeviceSecret, email, ttl, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "issue: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}

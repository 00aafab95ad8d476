// Package config loads the service settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const minSecretLength = 16

// Config holds the settings of cmd/server
type Config struct {
	DatabaseURL string
	Port        string
	JWTSecret   []byte
	TokenTTL    time.Duration
	ModelPath   string
	Location    *time.Location
	AutoMigrate bool
}

// Load reads the given .env files (".env" when none are named) into the
// process environment, then builds a Config from it. Missing files are
// ignored; variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a variable lookup function. Every invalid
// or missing setting is reported in the returned error.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	var errs []error
	cfg := &Config{
		DatabaseURL: get("DATABASE_URL", ""),
		Port:        get("PORT", "8080"),
		JWTSecret:   []byte(get("JWT_SECRET", "")),
		ModelPath:   get("MODEL_PATH", "model/gradient_boosting.json"),
	}

	if cfg.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a TCP port number, got %q", cfg.Port))
	}

	if len(cfg.JWTSecret) < minSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLength))
	}

	ttl, err := time.ParseDuration(get("TOKEN_TTL", "24h"))
	if err != nil || ttl <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be a positive duration, got %q", get("TOKEN_TTL", "24h")))
	}
	cfg.TokenTTL = ttl

	loc, err := time.LoadLocation(get("TIMEZONE", "UTC"))
	if err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	cfg.Location = loc

	autoMigrate, err := strconv.ParseBool(get("AUTO_MIGRATE", "true"))
	if err != nil {
		errs = append(errs, fmt.Errorf("AUTO_MIGRATE must be a boolean, got %q", get("AUTO_MIGRATE", "true")))
	}
	cfg.AutoMigrate = autoMigrate

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return cfg, nil
}

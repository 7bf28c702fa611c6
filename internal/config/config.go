package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/amscan/ordersync/internal/remote"
)

// DefaultCutoff is the admission cutoff applied when SYNC_CUTOFF is unset:
// files last modified at or before this instant are never processed.
const DefaultCutoff = "2025-06-19T17:00:00Z"

// APICredentials configures the commerce API client.
type APICredentials struct {
	BaseURL string
	Token   string
}

func (c APICredentials) IsLoaded() bool {
	return c.BaseURL != "" && c.Token != ""
}

// Config is the full application configuration, sourced from the environment
// (optionally seeded from a .env file).
type Config struct {
	Port   string
	DBPath string

	SFTP remote.SFTPCredentials
	API  APICredentials

	SyncInterval    time.Duration
	Cutoff          time.Time
	DispatchTimeout time.Duration
	SettleDelay     time.Duration

	FileDeletion  bool
	SkipProcessed bool
}

// Load reads the environment into a Config. A missing .env file is not an
// error; explicit environment variables always win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else {
		log.Printf("[config] Loaded environment from .env")
	}

	cfg := &Config{
		Port:   envString("PORT", "8080"),
		DBPath: envString("DB_PATH", "ordersync.db"),
		SFTP: remote.SFTPCredentials{
			Host:      os.Getenv("SFTP_HOST"),
			Port:      envInt("SFTP_PORT", 22),
			Username:  os.Getenv("SFTP_USERNAME"),
			Password:  os.Getenv("SFTP_PASSWORD"),
			Directory: envString("SFTP_DIRECTORY", "."),
		},
		API: APICredentials{
			BaseURL: os.Getenv("API_BASE_URL"),
			Token:   os.Getenv("API_TOKEN"),
		},
		FileDeletion:  envBool("FILE_DELETION", true),
		SkipProcessed: envBool("SKIP_PROCESSED_FILES", true),
	}

	var err error
	if cfg.SyncInterval, err = envDuration("SYNC_INTERVAL_MINUTES", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DispatchTimeout, err = envDuration("DISPATCH_TIMEOUT_SECONDS", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.SettleDelay, err = envDuration("CUSTOMER_SETTLE_SECONDS", 5*time.Second); err != nil {
		return nil, err
	}

	cutoff := envString("SYNC_CUTOFF", DefaultCutoff)
	cfg.Cutoff, err = time.Parse(time.RFC3339, cutoff)
	if err != nil {
		return nil, fmt.Errorf("parse SYNC_CUTOFF %q: %w", cutoff, err)
	}

	return cfg, nil
}

// Validate reports the credential groups required for a sync run.
func (c *Config) Validate() error {
	if !c.SFTP.IsLoaded() {
		return fmt.Errorf("config: SFTP credentials incomplete (SFTP_HOST, SFTP_USERNAME, SFTP_PASSWORD required)")
	}
	if !c.API.IsLoaded() {
		return fmt.Errorf("config: API credentials incomplete (API_BASE_URL, API_TOKEN required)")
	}
	return nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[config] WARNING: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("[config] WARNING: invalid %s=%q, using %v", key, v, def)
		return def
	}
	return b
}

// envDuration reads a numeric env var scaled by the unit implied in the key
// suffix (MINUTES or SECONDS).
func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("parse %s %q: must be a positive number", key, v)
	}
	unit := time.Second
	if len(key) >= 7 && key[len(key)-7:] == "MINUTES" {
		unit = time.Minute
	}
	return time.Duration(n * float64(unit)), nil
}

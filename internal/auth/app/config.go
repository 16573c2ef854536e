package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/sessiond/internal/auth/audit"
	"github.com/aussiebroadwan/sessiond/internal/auth/service"
	"github.com/aussiebroadwan/sessiond/pkg/httpx"
	"github.com/aussiebroadwan/sessiond/pkg/jwtx"
	"github.com/joho/godotenv"
)

// GoogleClientID is baked in at build time:
//
//	go build -ldflags "-X github.com/aussiebroadwan/sessiond/internal/auth/app.GoogleClientID=..."
//
// GOOGLE_SSO_CLIENT_ID overrides it.
var GoogleClientID = ""

var ErrMissingClientID = errors.New("google client id is not configured (set GOOGLE_SSO_CLIENT_ID or build with -ldflags)")

type Config struct {
	GoogleClientID     string        // Required: OAuth client id ID tokens must be minted for
	GoogleCertsURL     string        // Optional: JWKS endpoint (default: Google's v3 certs)
	GoogleCertsTimeout time.Duration // Optional: timeout for one JWKS fetch (default: 10s)

	AuditLogFile         string        // Optional: append-only login history file (default: data/login_history.log)
	DatabaseFile         string        // Optional: path to SQLite database file (default: data/sessiond.db)
	HistoryRetention     time.Duration // Optional: how long login history is kept (default: 90 days)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory if there is one. Rate limit overrides are applied to the
// httpx profiles as a side effect.
func LoadConfig() Config {
	_ = godotenv.Load(".env")

	httpx.LoadRateLimitsFromEnv()

	return Config{
		GoogleClientID:       getEnvOrDefault("GOOGLE_SSO_CLIENT_ID", GoogleClientID),
		GoogleCertsURL:       getEnvOrDefault("GOOGLE_CERTS_URL", jwtx.GoogleCertsURL),
		GoogleCertsTimeout:   getEnvDurationOrDefault("GOOGLE_CERTS_TIMEOUT", jwtx.DefaultFetchTimeout),
		AuditLogFile:         getEnvOrDefault("AUTH_AUDIT_LOG_FILE", audit.DefaultPath),
		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "data/sessiond.db"),
		HistoryRetention:     getEnvDurationOrDefault("LOGIN_HISTORY_RETENTION", service.DefaultHistoryRetention),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

// Validate rejects configurations the service can't run with.
func (c Config) Validate() error {
	if c.GoogleClientID == "" {
		return ErrMissingClientID
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("PORT must be between 1 and 65535")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Signal store backends selectable via SIGNAL_STORE.
const (
	SignalBackendFile     = "file"
	SignalBackendPostgres = "postgres"
	SignalBackendMemory   = "memory"
)

// Config represents agent configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	DonationAPIBaseURL string
	PollInterval       time.Duration
	SignalBackend      string
	SignalFlagPath     string
	SignalFlagName     string
	DatabaseURL        string
	GeoIPDBPath        string
	DefaultLocale      string
	AllowedOrigins     []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		DonationAPIBaseURL: os.Getenv("DONATION_API_BASE_URL"),
		PollInterval:       time.Millisecond * time.Duration(getEnvInt("POLL_INTERVAL_MS", 500)),
		SignalBackend:      getEnv("SIGNAL_STORE", SignalBackendFile),
		SignalFlagPath:     getEnv("SIGNAL_FLAG_PATH", ".donations-dirty"),
		SignalFlagName:     getEnv("SIGNAL_FLAG_NAME", ""),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		GeoIPDBPath:        os.Getenv("GEOIP_DB_PATH"),
		DefaultLocale:      getEnv("DEFAULT_LOCALE", "en"),
		AllowedOrigins:     splitEnv("CORS_ALLOWED_ORIGINS"),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DonationAPIBaseURL == "" {
		return nil, fmt.Errorf("DONATION_API_BASE_URL is required")
	}

	switch cfg.SignalBackend {
	case SignalBackendFile, SignalBackendMemory:
	case SignalBackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for the postgres signal store")
		}
	default:
		return nil, fmt.Errorf("unknown SIGNAL_STORE %q", cfg.SignalBackend)
	}

	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL_MS must be positive")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitEnv(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

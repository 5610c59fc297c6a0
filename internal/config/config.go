// ABOUTME: Configuration loader for the booking client
// ABOUTME: Loads settings from an optional .env file and environment variables with defaults

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is used when no booking service URL is configured
const DefaultAPIURL = "http://localhost:5000"

type Config struct {
	// Booking service
	APIURL      string
	HTTPTimeout time.Duration // default 30s

	// Local state (session token, debug log)
	ConfigDir string

	// Storefront
	BookingDays    int           // selectable days starting today (default 4)
	Courts         []string      // courts offered in the picker
	CancelLeadTime time.Duration // minimum notice for same-day cancellation (default 2h)
	CourtsCacheTTL time.Duration // court price cache lifetime (default 5m)

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string // "-" logs to stderr, empty logs to debug.log in ConfigDir
	Debug     bool   // forces debug level
}

// Load reads .env from the working directory (if present) and then the environment.
// Variables already set in the environment win over .env entries.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	cfg := &Config{
		APIURL:      ensureScheme(getEnv("VIBHA_API_URL", DefaultAPIURL)),
		HTTPTimeout: time.Duration(getEnvInt("VIBHA_HTTP_TIMEOUT", 30)) * time.Second,

		ConfigDir: getEnv("VIBHA_CONFIG_DIR", DefaultConfigDir()),

		BookingDays:    getEnvInt("VIBHA_BOOKING_DAYS", 4),
		Courts:         getEnvStringList("VIBHA_COURTS"),
		CancelLeadTime: time.Duration(getEnvInt("VIBHA_CANCEL_LEAD_MINUTES", 120)) * time.Minute,
		CourtsCacheTTL: time.Duration(getEnvInt("VIBHA_COURTS_CACHE_TTL", 300)) * time.Second,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
		LogFile:   os.Getenv("VIBHA_LOG_FILE"),
		Debug:     getEnvBool("VIBHA_DEBUG", false),
	}
	if cfg.Debug {
		cfg.LogLevel = "debug"
	}
	if len(cfg.Courts) == 0 {
		cfg.Courts = []string{"Court A", "Court B"}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("VIBHA_API_URL must be an http(s) URL, got %q", c.APIURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("VIBHA_HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	if c.BookingDays < 1 || c.BookingDays > 30 {
		return fmt.Errorf("VIBHA_BOOKING_DAYS must be between 1 and 30, got %d", c.BookingDays)
	}
	if c.CancelLeadTime < 0 {
		return fmt.Errorf("VIBHA_CANCEL_LEAD_MINUTES must not be negative, got %s", c.CancelLeadTime)
	}
	if c.CourtsCacheTTL < 0 {
		return fmt.Errorf("VIBHA_COURTS_CACHE_TTL must not be negative, got %s", c.CourtsCacheTTL)
	}
	return nil
}

// LogPath returns where the logger should write, or "" for stderr
func (c *Config) LogPath() string {
	switch c.LogFile {
	case "-":
		return ""
	case "":
		if c.ConfigDir == "" {
			return ""
		}
		return filepath.Join(c.ConfigDir, "debug.log")
	default:
		return c.LogFile
	}
}

// DefaultConfigDir returns the default config directory following the XDG base directory layout
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "vibha-sports")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "vibha-sports")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvStringList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ensureScheme adds a scheme if the URL has none: http for local hosts, https otherwise
func ensureScheme(raw string) string {
	if raw == "" || strings.Contains(raw, "://") {
		return raw
	}
	if strings.HasPrefix(raw, "localhost") || strings.HasPrefix(raw, "127.0.0.1") {
		return "http://" + raw
	}
	return "https://" + raw
}

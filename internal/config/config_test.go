// ABOUTME: Tests for configuration loading and validation
// ABOUTME: Covers env defaults, overrides and the config directory layout

package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Cleanup(withCleanEnv(t, nil))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("Expected APIURL %s, got %s", DefaultAPIURL, cfg.APIURL)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("Expected HTTPTimeout 30s, got %s", cfg.HTTPTimeout)
	}
	if cfg.BookingDays != 4 {
		t.Errorf("Expected BookingDays 4, got %d", cfg.BookingDays)
	}
	if cfg.CancelLeadTime != 2*time.Hour {
		t.Errorf("Expected CancelLeadTime 2h, got %s", cfg.CancelLeadTime)
	}
	if cfg.CourtsCacheTTL != 5*time.Minute {
		t.Errorf("Expected CourtsCacheTTL 5m, got %s", cfg.CourtsCacheTTL)
	}
	if len(cfg.Courts) != 2 || cfg.Courts[0] != "Court A" || cfg.Courts[1] != "Court B" {
		t.Errorf("Expected default courts, got %v", cfg.Courts)
	}
	if filepath.Base(cfg.ConfigDir) != "vibha-sports" {
		t.Errorf("Expected XDG config dir, got %s", cfg.ConfigDir)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Errorf("Expected info/text logging, got %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{
		"VIBHA_API_URL":             "https://book.example.com",
		"VIBHA_CONFIG_DIR":          "/tmp/vibha-test",
		"VIBHA_HTTP_TIMEOUT":        "5",
		"VIBHA_BOOKING_DAYS":        "7",
		"VIBHA_COURTS":              "Centre, Court 2 ,",
		"VIBHA_CANCEL_LEAD_MINUTES": "60",
		"VIBHA_COURTS_CACHE_TTL":    "0",
		"VIBHA_DEBUG":               "true",
	}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.APIURL != "https://book.example.com" {
		t.Errorf("Expected APIURL override, got %s", cfg.APIURL)
	}
	if cfg.ConfigDir != "/tmp/vibha-test" {
		t.Errorf("Expected ConfigDir override, got %s", cfg.ConfigDir)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("Expected HTTPTimeout 5s, got %s", cfg.HTTPTimeout)
	}
	if cfg.BookingDays != 7 {
		t.Errorf("Expected BookingDays 7, got %d", cfg.BookingDays)
	}
	if len(cfg.Courts) != 2 || cfg.Courts[1] != "Court 2" {
		t.Errorf("Expected trimmed court list, got %v", cfg.Courts)
	}
	if cfg.CancelLeadTime != time.Hour {
		t.Errorf("Expected CancelLeadTime 1h, got %s", cfg.CancelLeadTime)
	}
	if cfg.CourtsCacheTTL != 0 {
		t.Errorf("Expected CourtsCacheTTL 0, got %s", cfg.CourtsCacheTTL)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected VIBHA_DEBUG to force debug level, got %s", cfg.LogLevel)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"ftp url", map[string]string{"VIBHA_API_URL": "ftp://example.com"}},
		{"zero timeout", map[string]string{"VIBHA_HTTP_TIMEOUT": "0"}},
		{"zero days", map[string]string{"VIBHA_BOOKING_DAYS": "0"}},
		{"too many days", map[string]string{"VIBHA_BOOKING_DAYS": "31"}},
		{"negative lead", map[string]string{"VIBHA_CANCEL_LEAD_MINUTES": "-5"}},
		{"negative ttl", map[string]string{"VIBHA_COURTS_CACHE_TTL": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(withCleanEnv(t, tt.env))

			if _, err := Load(); err == nil {
				t.Error("Expected validation error, got nil")
			}
		})
	}
}

func TestLoadConfig_IgnoresUnparseableInts(t *testing.T) {
	t.Cleanup(withCleanEnv(t, map[string]string{"VIBHA_BOOKING_DAYS": "lots"}))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.BookingDays != 4 {
		t.Errorf("Expected fallback to 4, got %d", cfg.BookingDays)
	}
}

func TestEnsureScheme(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"localhost:5000", "http://localhost:5000"},
		{"127.0.0.1:5000", "http://127.0.0.1:5000"},
		{"book.example.com", "https://book.example.com"},
		{"http://book.example.com", "http://book.example.com"},
	}

	for _, tt := range tests {
		if got := ensureScheme(tt.in); got != tt.want {
			t.Errorf("ensureScheme(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLogPath(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"stderr", Config{LogFile: "-", ConfigDir: "/cfg"}, ""},
		{"default file", Config{ConfigDir: "/cfg"}, filepath.Join("/cfg", "debug.log")},
		{"no config dir", Config{}, ""},
		{"explicit", Config{LogFile: "/var/log/vibha.log", ConfigDir: "/cfg"}, "/var/log/vibha.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.LogPath(); got != tt.want {
				t.Errorf("LogPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

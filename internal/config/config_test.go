package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:           "8080",
		SQLiteDBPath:   "./data/test.db",
		SessionSecret:  "secret",
		SessionTTL:     24 * time.Hour,
		BcryptCost:     0,
		LoginRateLimit: 10,
		LogLevel:       "info",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("default port = %s", cfg.Port)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("default session TTL = %v", cfg.SessionTTL)
	}
	if !cfg.IsDevSecret() {
		t.Fatalf("unset secret should report dev secret")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("SESSION_SECRET", "prod-secret")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("BCRYPT_COST", "12")

	cfg := Load()
	if cfg.Port != "9999" {
		t.Fatalf("port = %s", cfg.Port)
	}
	if cfg.IsDevSecret() {
		t.Fatalf("explicit secret should not report dev secret")
	}
	if cfg.SessionTTL != 2*time.Hour {
		t.Fatalf("session TTL = %v", cfg.SessionTTL)
	}
	if cfg.BcryptCost != 12 {
		t.Fatalf("bcrypt cost = %d", cfg.BcryptCost)
	}
}

func TestValidateErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Port = "abc" }, "invalid port"},
		{"port range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"empty db path", func(c *Config) { c.SQLiteDBPath = "" }, "database path"},
		{"empty secret", func(c *Config) { c.SessionSecret = "" }, "session secret"},
		{"short ttl", func(c *Config) { c.SessionTTL = time.Second }, "session TTL"},
		{"long ttl", func(c *Config) { c.SessionTTL = 90 * 24 * time.Hour }, "session TTL"},
		{"bcrypt cost", func(c *Config) { c.BcryptCost = 2 }, "bcrypt cost"},
		{"rate limit", func(c *Config) { c.LoginRateLimit = 0 }, "rate limit"},
		{"log level", func(c *Config) { c.LogLevel = "verbose" }, "log level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.SessionSecret = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "invalid port") || !strings.Contains(err.Error(), "session secret") {
		t.Fatalf("expected both errors, got %q", err)
	}
}

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Port:              "8080",
		SQLiteDBPath:      t.TempDir() + "/test.db",
		JWTSecret:         "secret",
		JWTExpiry:         24 * time.Hour,
		RecurringInterval: time.Hour,
	}
}

func TestConfigValidate(t *testing.T) {
	if err := validConfig(t).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	t.Run("bad port", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Port = "nope"
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "invalid port") {
			t.Errorf("expected port error, got %v", err)
		}
	})

	t.Run("missing secret", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.JWTSecret = ""
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
			t.Errorf("expected secret error, got %v", err)
		}
	})

	t.Run("bad amqp scheme", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.AMQPURL = "http://localhost:5672/"
		cfg.AMQPExchange = "x"
		cfg.AMQPQueue = "q"
		if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "scheme") {
			t.Errorf("expected scheme error, got %v", err)
		}
	})

	t.Run("interval bounds", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.RecurringInterval = time.Second
		if err := cfg.Validate(); err == nil {
			t.Error("expected interval error")
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("default port = %s, want 8080", cfg.Port)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("default JWT expiry = %v, want 24h", cfg.JWTExpiry)
	}
	if cfg.AMQPQueue != "recurring_transactions" {
		t.Errorf("default queue = %s", cfg.AMQPQueue)
	}
}

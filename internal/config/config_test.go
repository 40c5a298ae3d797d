package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		Port:              "8001",
		SQLiteDBPath:      "./data/bukukas.db",
		JWTSecret:         "secret",
		TokenTTL:          24 * time.Hour,
		AuthRatePerMinute: 30,
		LogLevel:          "info",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8001" {
		t.Errorf("expected default port 8001, got %s", cfg.Port)
	}
	if cfg.SQLiteDBPath != "./data/bukukas.db" {
		t.Errorf("unexpected default db path %s", cfg.SQLiteDBPath)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("expected default token TTL 24h, got %v", cfg.TokenTTL)
	}
	if cfg.AuthRatePerMinute != 30 {
		t.Errorf("expected default auth rate 30, got %d", cfg.AuthRatePerMinute)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("TOKEN_TTL", "1h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %s", cfg.Port)
	}
	if cfg.JWTSecret != "from-env" {
		t.Errorf("expected secret from env, got %s", cfg.JWTSecret)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("expected token TTL 1h, got %v", cfg.TokenTTL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			modify: func(c *Config) {},
		},
		{
			name:    "non numeric port",
			modify:  func(c *Config) { c.Port = "abc" },
			wantErr: "invalid port",
		},
		{
			name:    "port out of range",
			modify:  func(c *Config) { c.Port = "70000" },
			wantErr: "must be between",
		},
		{
			name:    "missing jwt secret",
			modify:  func(c *Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET",
		},
		{
			name:    "token ttl too short",
			modify:  func(c *Config) { c.TokenTTL = time.Second },
			wantErr: "token TTL",
		},
		{
			name:    "empty db path",
			modify:  func(c *Config) { c.SQLiteDBPath = "" },
			wantErr: "database path",
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.LogLevel = "verbose" },
			wantErr: "log level",
		},
		{
			name:    "auth rate too low",
			modify:  func(c *Config) { c.AuthRatePerMinute = 0 },
			wantErr: "auth rate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid config, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateCombinesErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.JWTSecret = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "invalid port") || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected both errors reported, got %v", err)
	}
}

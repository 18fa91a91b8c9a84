package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	os.Unsetenv("SECRET_KEY")
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("DATA_DIR")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "5000" {
		t.Fatalf("unexpected default port: %q", cfg.Server.Port)
	}
	if cfg.Storage.DataDir != "./data" {
		t.Fatalf("unexpected default data dir: %q", cfg.Storage.DataDir)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected default token TTL: %v", cfg.Auth.TokenTTL)
	}
	// secret must be populated even without SECRET_KEY
	if cfg.Auth.Secret == "" {
		t.Fatal("expected generated signing secret")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	os.Setenv("SECRET_KEY", "fixed-test-secret-32-bytes-xxxxx")
	os.Setenv("SERVER_PORT", "9999")
	os.Setenv("JWT_EXPIRATION_HOURS", "1")
	os.Setenv("DATA_DIR", "/tmp/susradar-test")
	defer func() {
		os.Unsetenv("SECRET_KEY")
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("JWT_EXPIRATION_HOURS")
		os.Unsetenv("DATA_DIR")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Auth.Secret != "fixed-test-secret-32-bytes-xxxxx" {
		t.Fatalf("secret not taken from env: %q", cfg.Auth.Secret)
	}
	if cfg.Server.Port != "9999" {
		t.Fatalf("port not taken from env: %q", cfg.Server.Port)
	}
	if cfg.Auth.TokenTTL != time.Hour {
		t.Fatalf("token TTL not taken from env: %v", cfg.Auth.TokenTTL)
	}
}

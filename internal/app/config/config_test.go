package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	viper.Reset()
	t.Setenv("DB_USER", "")
	t.Setenv("PORT", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing config file must not be fatal: %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Fatalf("expected default port 3000, got %s", cfg.Server.Port)
	}
	if cfg.Sync.QueueName != "ginee_sync" {
		t.Fatalf("expected default queue name, got %s", cfg.Sync.QueueName)
	}
	if cfg.Ginee.MaxAttempts != 3 {
		t.Fatalf("expected default max attempts 3, got %d", cfg.Ginee.MaxAttempts)
	}
	if cfg.Ginee.RetryDelay != 2*time.Second {
		t.Fatalf("expected default retry delay 2s, got %s", cfg.Ginee.RetryDelay)
	}
	if cfg.Sync.Threads != 2 {
		t.Fatalf("expected default threads 2, got %d", cfg.Sync.Threads)
	}
}

func TestLoadFromFile(t *testing.T) {
	viper.Reset()

	content := []byte(`
server:
  port: "8080"
mysql:
  host: db.internal
  user: app
  name: grabsync
ginee:
  endpoint: http://ginee.internal/sync
  max_attempts: 5
sync:
  wait_timeout: 5s
`)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("expected port from file, got %s", cfg.Server.Port)
	}
	if cfg.MySQL.Host != "db.internal" {
		t.Fatalf("expected mysql host from file, got %s", cfg.MySQL.Host)
	}
	if cfg.Ginee.MaxAttempts != 5 {
		t.Fatalf("expected max attempts from file, got %d", cfg.Ginee.MaxAttempts)
	}
	if cfg.Sync.WaitTimeout != 5*time.Second {
		t.Fatalf("expected wait timeout from file, got %s", cfg.Sync.WaitTimeout)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	viper.Reset()
	t.Setenv("PORT", "9000")
	t.Setenv("DB_HOST", "env-host")

	content := []byte(`
server:
  port: "8080"
mysql:
  host: file-host
`)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "9000" {
		t.Fatalf("env must win over file, got %s", cfg.Server.Port)
	}
	if cfg.MySQL.Host != "env-host" {
		t.Fatalf("env must win over file, got %s", cfg.MySQL.Host)
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty config must fail validation")
	}

	cfg.MySQL.User = "app"
	cfg.MySQL.Name = "grabsync"
	cfg.Redis.Addr = "localhost:6379"
	cfg.Lmstfy.Host = "localhost"
	cfg.Ginee.Endpoint = "http://ginee.internal/sync"
	cfg.Ginee.MaxAttempts = 3
	if err := cfg.Validate(); err != nil {
		t.Fatalf("complete config must pass validation: %v", err)
	}
}

func TestMySQLDSN(t *testing.T) {
	c := MySQLConfig{Host: "db", Port: 3307, User: "u", Password: "p", Name: "grabsync"}
	want := "u:p@tcp(db:3307)/grabsync?charset=utf8mb4&parseTime=True&loc=Local"
	if got := c.DSN(); got != want {
		t.Fatalf("DSN() = %q, want %q", got, want)
	}
}

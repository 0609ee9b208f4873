package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "8080" || cfg.URLCache.Backend != "memory" {
		t.Fatalf("unexpected defaults: port=%q cache=%q", cfg.Port, cfg.URLCache.Backend)
	}
	if cfg.Auth.AccessTokenTTL != time.Hour {
		t.Fatalf("unexpected access ttl: %s", cfg.Auth.AccessTokenTTL)
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
port: "9090"
base_url: https://maturamate.test/
db:
  driver: sqlite
  sqlite_path: /tmp/mm.db
url_cache:
  backend: redis
  redis_addr: redis:6379
  signed_url_ttl: 10m
cors_allowed_origins:
  - https://maturamate.test
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("SIGNED_URL_TTL", "60")

	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("env should override file: port=%q", cfg.Port)
	}
	if cfg.BaseURL != "https://maturamate.test" {
		t.Fatalf("unexpected base url: %q", cfg.BaseURL)
	}
	if cfg.DB.Driver != "sqlite" || cfg.DB.SQLitePath != "/tmp/mm.db" {
		t.Fatalf("unexpected db config: %+v", cfg.DB)
	}
	if cfg.URLCache.Backend != "redis" || cfg.URLCache.RedisAddr != "redis:6379" {
		t.Fatalf("unexpected cache config: %+v", cfg.URLCache)
	}
	if cfg.URLCache.SignedTTL != time.Minute {
		t.Fatalf("unexpected signed url ttl: %s", cfg.URLCache.SignedTTL)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://maturamate.test" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("port: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	if _, err := LoadConfig(logger.Nop()); err == nil {
		t.Fatalf("expected parse error")
	}
}

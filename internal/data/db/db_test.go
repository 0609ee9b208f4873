package db

import (
	"path/filepath"
	"testing"

	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

func TestPostgresDSNDefaultsSSLMode(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "u", Password: "p", Name: "maturamate"}
	want := "postgres://u:p@db:5432/maturamate?sslmode=disable"
	if got := cfg.PostgresDSN(); got != want {
		t.Fatalf("dsn: got=%q want=%q", got, want)
	}
}

func TestNewServiceRejectsUnknownDriver(t *testing.T) {
	if _, err := NewService(logger.Nop(), Config{Driver: "mysql"}); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestSQLiteMigrate(t *testing.T) {
	svc, err := NewService(logger.Nop(), Config{Driver: "sqlite", SQLitePath: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })

	if err := AutoMigrateAll(svc.DB()); err != nil {
		t.Fatalf("AutoMigrateAll: %v", err)
	}
	if !svc.DB().Migrator().HasTable(&types.ContentRelation{}) {
		t.Fatalf("expected user_content_relation table")
	}
	if !svc.DB().Migrator().HasIndex(&types.ContentRelation{}, "idx_content_relation_identity") {
		t.Fatalf("expected unique relation index")
	}
}

package app

import (
	"errors"
	"testing"

	"github.com/maturamate/maturamate-backend/internal/platform/gcp"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

func TestResolveBucketServiceDisabledWithoutBuckets(t *testing.T) {
	cfg := defaultConfig()
	called := false
	orig := newBucketService
	newBucketService = func(*logger.Logger, gcp.ObjectStorageConfig) (gcp.BucketService, error) {
		called = true
		return nil, nil
	}
	t.Cleanup(func() { newBucketService = orig })

	bucket, err := resolveBucketService(logger.Nop(), cfg)
	if err != nil {
		t.Fatalf("resolveBucketService: %v", err)
	}
	if bucket != nil || called {
		t.Fatalf("expected storage to stay disabled")
	}
}

func TestResolveBucketServiceInvalidConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Storage.Mode = "gcs_emulator"
	cfg.Storage.NotesBucket = "notes"
	cfg.Storage.AvatarBucket = "avatars"

	_, err := resolveBucketService(logger.Nop(), cfg)
	var got *StorageBootstrapError
	if !errors.As(err, &got) {
		t.Fatalf("expected StorageBootstrapError, got=%T (%v)", err, err)
	}
	if got.Code != StorageBootstrapErrorInvalidConfig {
		t.Fatalf("code: want=%q got=%q", StorageBootstrapErrorInvalidConfig, got.Code)
	}
	var cfgErr *gcp.ObjectStorageConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Code != gcp.ObjectStorageConfigErrorMissingEmulatorHost {
		t.Fatalf("expected missing emulator host cause, got %v", err)
	}
}

func TestResolveBucketServiceConnectFailure(t *testing.T) {
	cfg := defaultConfig()
	cfg.Storage.Mode = "gcs"
	cfg.Storage.NotesBucket = "notes"
	cfg.Storage.AvatarBucket = "avatars"

	orig := newBucketService
	newBucketService = func(*logger.Logger, gcp.ObjectStorageConfig) (gcp.BucketService, error) {
		return nil, errors.New("dial tcp: refused")
	}
	t.Cleanup(func() { newBucketService = orig })

	_, err := resolveBucketService(logger.Nop(), cfg)
	var got *StorageBootstrapError
	if !errors.As(err, &got) || got.Code != StorageBootstrapErrorConnectFailed {
		t.Fatalf("expected connect_failed, got %v", err)
	}
}

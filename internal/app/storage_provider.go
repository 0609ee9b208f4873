package app

import (
	"errors"
	"fmt"

	"github.com/maturamate/maturamate-backend/internal/platform/gcp"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

var newBucketService = gcp.NewBucketService

type StorageBootstrapErrorCode string

const (
	StorageBootstrapErrorInvalidConfig StorageBootstrapErrorCode = "invalid_config"
	StorageBootstrapErrorConnectFailed StorageBootstrapErrorCode = "connect_failed"
)

type StorageBootstrapError struct {
	Code  StorageBootstrapErrorCode
	Mode  string
	Cause error
}

func (e *StorageBootstrapError) Error() string {
	if e == nil {
		return "object storage bootstrap failed"
	}
	return fmt.Sprintf("object storage bootstrap failed (code=%s mode=%q): %v", e.Code, e.Mode, e.Cause)
}

func (e *StorageBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveBucketService returns a nil service in disabled mode; signed URLs then
// answer 503 and avatars are skipped.
func resolveBucketService(log *logger.Logger, cfg Config) (gcp.BucketService, error) {
	storageCfg, err := gcp.NormalizeObjectStorageConfig(gcp.ObjectStorageConfig{
		Mode:         gcp.ObjectStorageMode(cfg.Storage.Mode),
		EmulatorHost: cfg.Storage.EmulatorHost,
		NotesBucket:  cfg.Storage.NotesBucket,
		AvatarBucket: cfg.Storage.AvatarBucket,
		Credentials:  cfg.Storage.Credentials,
	})
	if err != nil {
		return nil, classifyStorageBootstrapError(storageCfg, err)
	}
	if storageCfg.Mode == gcp.ObjectStorageModeDisabled {
		log.Warn("Object storage disabled; note PDFs and avatars are unavailable", "inferred", storageCfg.Inferred)
		return nil, nil
	}

	bucket, err := newBucketService(log, storageCfg)
	if err != nil {
		classified := classifyStorageBootstrapError(storageCfg, err)
		log.Error("Object storage bootstrap failed", "mode", storageCfg.Mode, "error", classified)
		return nil, classified
	}
	return bucket, nil
}

func classifyStorageBootstrapError(storageCfg gcp.ObjectStorageConfig, err error) error {
	code := StorageBootstrapErrorConnectFailed
	var cfgErr *gcp.ObjectStorageConfigError
	if errors.As(err, &cfgErr) {
		code = StorageBootstrapErrorInvalidConfig
	}
	return &StorageBootstrapError{Code: code, Mode: string(storageCfg.Mode), Cause: err}
}

package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
	// ObjectStorageModeDisabled runs without a bucket; avatar upload is skipped
	// and signed URL issuance reports the store as unavailable.
	ObjectStorageModeDisabled ObjectStorageMode = "disabled"
)

type ObjectStorageConfig struct {
	Mode         ObjectStorageMode
	EmulatorHost string
	NotesBucket  string
	AvatarBucket string
	// Credentials is inline service account JSON or a key file path.
	Credentials string
	// Inferred is set when the mode was derived from STORAGE_EMULATOR_HOST.
	Inferred bool
}

func (m ObjectStorageMode) Supported() bool {
	switch m {
	case ObjectStorageModeGCS, ObjectStorageModeGCSEmulator, ObjectStorageModeDisabled:
		return true
	default:
		return false
	}
}

func (cfg ObjectStorageConfig) IsEmulatorMode() bool {
	return cfg.Mode == ObjectStorageModeGCSEmulator
}

type ObjectStorageConfigErrorCode string

const (
	ObjectStorageConfigErrorInvalidMode         ObjectStorageConfigErrorCode = "invalid_mode"
	ObjectStorageConfigErrorMissingEmulatorHost ObjectStorageConfigErrorCode = "missing_emulator_host"
	ObjectStorageConfigErrorInvalidEmulatorHost ObjectStorageConfigErrorCode = "invalid_emulator_host"
	ObjectStorageConfigErrorMissingBucket       ObjectStorageConfigErrorCode = "missing_bucket"
)

type ObjectStorageConfigError struct {
	Code  ObjectStorageConfigErrorCode
	Mode  string
	Value string
	Cause error
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "invalid object storage config"
	}
	switch e.Code {
	case ObjectStorageConfigErrorInvalidMode:
		return fmt.Sprintf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q, %q)",
			e.Mode, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator, ObjectStorageModeDisabled)
	case ObjectStorageConfigErrorMissingEmulatorHost:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST", ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorInvalidEmulatorHost:
		return fmt.Sprintf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://fake-gcs:4443", e.Value)
	case ObjectStorageConfigErrorMissingBucket:
		return fmt.Sprintf("OBJECT_STORAGE_MODE=%q requires %s", e.Mode, e.Value)
	default:
		return "invalid object storage config"
	}
}

func (e *ObjectStorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NormalizeObjectStorageConfig fills the mode when it was left empty and
// validates the result.
func NormalizeObjectStorageConfig(cfg ObjectStorageConfig) (ObjectStorageConfig, error) {
	cfg.EmulatorHost = strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
	raw := strings.TrimSpace(string(cfg.Mode))
	cfg.Mode = ObjectStorageMode(strings.ToLower(raw))
	if cfg.Mode == "" {
		switch {
		case cfg.EmulatorHost != "":
			cfg.Mode = ObjectStorageModeGCSEmulator
			cfg.Inferred = true
		case cfg.NotesBucket == "":
			cfg.Mode = ObjectStorageModeDisabled
			cfg.Inferred = true
		default:
			cfg.Mode = ObjectStorageModeGCS
		}
	}
	if !cfg.Mode.Supported() {
		return cfg, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Mode: raw}
	}
	return cfg, ValidateObjectStorageConfig(cfg)
}

func ValidateObjectStorageConfig(cfg ObjectStorageConfig) error {
	if !cfg.Mode.Supported() {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
	if cfg.Mode == ObjectStorageModeDisabled {
		return nil
	}
	if strings.TrimSpace(cfg.NotesBucket) == "" {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingBucket, Mode: string(cfg.Mode), Value: "NOTES_GCS_BUCKET_NAME"}
	}
	if strings.TrimSpace(cfg.AvatarBucket) == "" {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingBucket, Mode: string(cfg.Mode), Value: "AVATAR_GCS_BUCKET_NAME"}
	}
	if !cfg.IsEmulatorMode() {
		return nil
	}
	if cfg.EmulatorHost == "" {
		return &ObjectStorageConfigError{Code: ObjectStorageConfigErrorMissingEmulatorHost, Mode: string(cfg.Mode)}
	}
	u, err := url.Parse(cfg.EmulatorHost)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return &ObjectStorageConfigError{
			Code:  ObjectStorageConfigErrorInvalidEmulatorHost,
			Mode:  string(cfg.Mode),
			Value: cfg.EmulatorHost,
			Cause: err,
		}
	}
	return nil
}

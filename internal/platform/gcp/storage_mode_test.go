package gcp

import (
	"errors"
	"testing"
)

func TestNormalizeObjectStorageConfigDefaultsToGCS(t *testing.T) {
	cfg, err := NormalizeObjectStorageConfig(ObjectStorageConfig{NotesBucket: "notes", AvatarBucket: "avatars"})
	if err != nil {
		t.Fatalf("NormalizeObjectStorageConfig: %v", err)
	}
	if cfg.Mode != ObjectStorageModeGCS {
		t.Fatalf("mode: want=%q got=%q", ObjectStorageModeGCS, cfg.Mode)
	}
	if cfg.Inferred {
		t.Fatalf("inferred: want=false got=true")
	}
}

func TestNormalizeObjectStorageConfigDisabledWithoutBuckets(t *testing.T) {
	cfg, err := NormalizeObjectStorageConfig(ObjectStorageConfig{})
	if err != nil {
		t.Fatalf("NormalizeObjectStorageConfig: %v", err)
	}
	if cfg.Mode != ObjectStorageModeDisabled || !cfg.Inferred {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestNormalizeObjectStorageConfigInfersEmulator(t *testing.T) {
	cfg, err := NormalizeObjectStorageConfig(ObjectStorageConfig{
		EmulatorHost: "http://fake-gcs:4443/",
		NotesBucket:  "notes",
		AvatarBucket: "avatars",
	})
	if err != nil {
		t.Fatalf("NormalizeObjectStorageConfig: %v", err)
	}
	if cfg.Mode != ObjectStorageModeGCSEmulator || !cfg.Inferred {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.EmulatorHost != "http://fake-gcs:4443" {
		t.Fatalf("emulator host not trimmed: %q", cfg.EmulatorHost)
	}
}

func TestNormalizeObjectStorageConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		cfg  ObjectStorageConfig
		code ObjectStorageConfigErrorCode
	}{
		{"invalid mode", ObjectStorageConfig{Mode: "local"}, ObjectStorageConfigErrorInvalidMode},
		{"missing notes bucket", ObjectStorageConfig{Mode: "gcs", AvatarBucket: "a"}, ObjectStorageConfigErrorMissingBucket},
		{"missing emulator host", ObjectStorageConfig{Mode: "gcs_emulator", NotesBucket: "n", AvatarBucket: "a"}, ObjectStorageConfigErrorMissingEmulatorHost},
		{"bad emulator host", ObjectStorageConfig{Mode: "gcs_emulator", EmulatorHost: "fake-gcs:4443", NotesBucket: "n", AvatarBucket: "a"}, ObjectStorageConfigErrorInvalidEmulatorHost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeObjectStorageConfig(tc.cfg)
			var cfgErr *ObjectStorageConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ObjectStorageConfigError, got=%v", err)
			}
			if cfgErr.Code != tc.code {
				t.Fatalf("code: want=%q got=%q", tc.code, cfgErr.Code)
			}
		})
	}
}

package gcp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type BucketCategory string

const (
	BucketCategoryAvatar BucketCategory = "avatar"
	BucketCategoryNotes  BucketCategory = "notes"
)

// V4 signatures are capped at seven days.
const maxSignedURLTTL = 7 * 24 * time.Hour

type BucketService interface {
	UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error
	DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error
	SignedURL(ctx context.Context, category BucketCategory, key string, ttl time.Duration) (string, error)
	Close() error
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	cfg           ObjectStorageConfig
	now           func() time.Time
}

func NewBucketService(log *logger.Logger, cfg ObjectStorageConfig) (BucketService, error) {
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	if cfg.Mode == ObjectStorageModeDisabled {
		return nil, fmt.Errorf("object storage is disabled")
	}
	serviceLog := log.With("service", "BucketService")

	stClient, err := newStorageClientForMode(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	serviceLog.Info(
		"Object storage initialized",
		"mode", cfg.Mode,
		"inferred", cfg.Inferred,
		"emulator_host", cfg.EmulatorHost,
		"notes_bucket", cfg.NotesBucket,
		"avatar_bucket", cfg.AvatarBucket,
	)
	return &bucketService{log: serviceLog, storageClient: stClient, cfg: cfg, now: time.Now}, nil
}

func newStorageClientForMode(ctx context.Context, cfg ObjectStorageConfig) (*storage.Client, error) {
	switch cfg.Mode {
	case ObjectStorageModeGCS:
		opts := credentialOptions(cfg)
		opts = append(opts, option.WithScopes(storage.ScopeReadWrite))
		return storage.NewClient(ctx, opts...)
	case ObjectStorageModeGCSEmulator:
		// the storage client reads the emulator endpoint from the environment
		_ = os.Setenv("STORAGE_EMULATOR_HOST", cfg.EmulatorHost)
		return storage.NewClient(ctx, option.WithoutAuthentication())
	default:
		return nil, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Mode: string(cfg.Mode)}
	}
}

func (bs *bucketService) bucketName(category BucketCategory) (string, error) {
	switch category {
	case BucketCategoryAvatar:
		return bs.cfg.AvatarBucket, nil
	case BucketCategoryNotes:
		return bs.cfg.NotesBucket, nil
	default:
		return "", fmt.Errorf("unknown bucket category: %s", category)
	}
}

func (bs *bucketService) UploadFile(dbc dbctx.Context, category BucketCategory, key string, file io.Reader) error {
	name, err := bs.bucketName(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(name).Object(key).NewWriter(ctx)
	if ct := contentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (bs *bucketService) DeleteFile(dbc dbctx.Context, category BucketCategory, key string) error {
	name, err := bs.bucketName(category)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(dbc.Ctx, 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(name).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, name, err)
	}
	return nil
}

// SignedURL issues a time-limited GET URL. The emulator has no signing
// support, so it gets a plain media URL instead.
func (bs *bucketService) SignedURL(ctx context.Context, category BucketCategory, key string, ttl time.Duration) (string, error) {
	name, err := bs.bucketName(category)
	if err != nil {
		return "", err
	}
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("empty object key")
	}
	if bs.cfg.IsEmulatorMode() {
		return emulatorMediaURL(bs.cfg.EmulatorHost, name, key), nil
	}
	u, err := bs.storageClient.Bucket(name).SignedURL(key, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: bs.now().Add(clampSignedURLTTL(ttl)),
	})
	if err != nil {
		return "", fmt.Errorf("sign GCS object %q: %w", key, err)
	}
	return u, nil
}

func (bs *bucketService) Close() error {
	if bs == nil || bs.storageClient == nil {
		return nil
	}
	return bs.storageClient.Close()
}

func clampSignedURLTTL(ttl time.Duration) time.Duration {
	switch {
	case ttl <= 0:
		return 15 * time.Minute
	case ttl > maxSignedURLTTL:
		return maxSignedURLTTL
	default:
		return ttl
	}
}

func emulatorMediaURL(host, bucket, key string) string {
	return fmt.Sprintf(
		"%s/storage/v1/b/%s/o/%s?alt=media",
		strings.TrimRight(strings.TrimSpace(host), "/"),
		url.PathEscape(bucket),
		url.PathEscape(key),
	)
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	default:
		return ""
	}
}

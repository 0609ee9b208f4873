package services

import (
	"context"
	"fmt"
	"time"

	"github.com/maturamate/maturamate-backend/internal/platform/apierr"
	"github.com/maturamate/maturamate-backend/internal/platform/gcp"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
	"github.com/maturamate/maturamate-backend/internal/platform/urlcache"
)

// URLSigner issues provider signed URLs; gcp.BucketService satisfies it.
type URLSigner interface {
	SignedURL(ctx context.Context, category gcp.BucketCategory, key string, ttl time.Duration) (string, error)
}

type SignedURL struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expiresIn"`
}

type SignedURLService interface {
	Get(ctx context.Context, category gcp.BucketCategory, key string) (*SignedURL, error)
	Invalidate(ctx context.Context, category gcp.BucketCategory, key string)
}

type signedURLService struct {
	log    *logger.Logger
	signer URLSigner
	cache  urlcache.Cache
	ttl    time.Duration
}

func NewSignedURLService(log *logger.Logger, signer URLSigner, cache urlcache.Cache, ttl time.Duration) SignedURLService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &signedURLService{
		log:    log.With("service", "SignedURLService"),
		signer: signer,
		cache:  cache,
		ttl:    ttl,
	}
}

func cacheKey(category gcp.BucketCategory, key string) string {
	return string(category) + ":" + key
}

func (s *signedURLService) Get(ctx context.Context, category gcp.BucketCategory, key string) (*SignedURL, error) {
	ck := cacheKey(category, key)
	if s.cache != nil {
		if hit, ok := s.cache.Get(ctx, ck); ok {
			return &SignedURL{URL: hit.URL, ExpiresIn: hit.ExpiresInSeconds}, nil
		}
	}
	if s.signer == nil {
		return nil, apierr.Unavailable("storage_unavailable", "object storage is not configured")
	}

	ttlSeconds := int(s.ttl / time.Second)
	u, err := s.signer.SignedURL(ctx, category, key, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign %s url: %w", category, err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, ck, u, ttlSeconds)
	}

	// report what a cache hit would report right now
	expiresIn := ttlSeconds - int(urlcache.SafetyBuffer/time.Second)
	if expiresIn < 0 {
		expiresIn = 0
	}
	return &SignedURL{URL: u, ExpiresIn: expiresIn}, nil
}

func (s *signedURLService) Invalidate(ctx context.Context, category gcp.BucketCategory, key string) {
	if s.cache != nil {
		s.cache.Clear(ctx, cacheKey(category, key))
	}
}

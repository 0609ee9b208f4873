package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/maturamate/maturamate-backend/internal/data/repos"
	"github.com/maturamate/maturamate-backend/internal/platform/apierr"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type EmailPreferenceService interface {
	// Token returns the value unsubscribe links carry for email.
	Token(email string) (string, error)
	Unsubscribe(ctx context.Context, email, token string) error
}

type emailPreferenceService struct {
	log    *logger.Logger
	prefs  repos.EmailPreferenceRepo
	secret []byte
	now    func() time.Time
}

func NewEmailPreferenceService(log *logger.Logger, prefs repos.EmailPreferenceRepo, secret string) EmailPreferenceService {
	return &emailPreferenceService{
		log:    log.With("service", "EmailPreferenceService"),
		prefs:  prefs,
		secret: []byte(secret),
		now:    time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *emailPreferenceService) sign(email string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(normalizeEmail(email)))
	return mac.Sum(nil)
}

func (s *emailPreferenceService) Token(email string) (string, error) {
	if len(s.secret) == 0 {
		return "", apierr.Unavailable("unsubscribe_unavailable", "unsubscribe links are not configured")
	}
	if normalizeEmail(email) == "" {
		return "", apierr.BadRequest("missing_email", "email is required")
	}
	return hex.EncodeToString(s.sign(email)), nil
}

func (s *emailPreferenceService) Unsubscribe(ctx context.Context, email, token string) error {
	if len(s.secret) == 0 {
		return apierr.Unavailable("unsubscribe_unavailable", "unsubscribe links are not configured")
	}
	email = normalizeEmail(email)
	if email == "" {
		return apierr.BadRequest("missing_email", "email is required")
	}
	got, err := hex.DecodeString(strings.TrimSpace(token))
	if err != nil || !hmac.Equal(got, s.sign(email)) {
		return apierr.BadRequest("invalid_token", "invalid token")
	}
	if err := s.prefs.MarkUnsubscribed(dbctx.Of(ctx), email, s.now().UTC()); err != nil {
		return fmt.Errorf("mark unsubscribed: %w", err)
	}
	s.log.Info("Email unsubscribed", "email", email)
	return nil
}

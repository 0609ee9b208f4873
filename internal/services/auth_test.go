package services

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/maturamate/maturamate-backend/internal/platform/ctxutil"
)

func newTestAuth(t *testing.T, env *testEnv, avatars AvatarService) *authService {
	t.Helper()
	svc := NewAuthService(env.log, env.txRunner(), env.users, env.tokens, avatars, "test-secret", 15*time.Minute, 24*time.Hour)
	return svc.(*authService)
}

func registerTestUser(t *testing.T, svc AuthService) (email, password string) {
	t.Helper()
	email = "auth-" + uuid.NewString()[:8] + "@example.com"
	password = "correct horse"
	if _, err := svc.Register(context.Background(), RegisterInput{
		Email: email, Password: password, FirstName: "Ana", LastName: "Kovač",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return email, password
}

func TestAuthLoginAndSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	bucket := newFakeBucket()
	avatars, err := NewAvatarService(env.log, env.users, bucket)
	if err != nil {
		t.Fatalf("NewAvatarService: %v", err)
	}
	svc := newTestAuth(t, env, avatars)

	email, password := registerTestUser(t, svc)
	if len(bucket.uploads) != 1 {
		t.Fatalf("expected avatar upload on register, got %d", len(bucket.uploads))
	}

	_, err = svc.Login(ctx, email, "wrong password")
	wantAPIError(t, err, http.StatusUnauthorized, "unauthorized")

	pair, err := svc.Login(ctx, strings.ToUpper(email), password)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" || pair.ExpiresIn != 15*60 {
		t.Fatalf("unexpected token pair: %+v", pair)
	}

	authed, err := svc.SetContextFromToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(authed)
	if rd == nil || rd.UserID == uuid.Nil || rd.SessionID == uuid.Nil {
		t.Fatalf("request data not populated: %+v", rd)
	}

	if err := svc.Logout(ctx, rd.SessionID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	_, err = svc.SetContextFromToken(ctx, pair.AccessToken)
	wantAPIError(t, err, http.StatusUnauthorized, "")
}

func TestAuthRefreshRotates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newTestAuth(t, env, nil)
	email, password := registerTestUser(t, svc)

	pair, err := svc.Login(ctx, email, password)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	next, err := svc.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if next.RefreshToken == pair.RefreshToken || next.AccessToken == pair.AccessToken {
		t.Fatalf("expected rotated tokens")
	}

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	wantAPIError(t, err, http.StatusUnauthorized, "")
	if _, err := svc.SetContextFromToken(ctx, pair.AccessToken); err == nil {
		t.Fatalf("old access token should be revoked")
	}
	if _, err := svc.SetContextFromToken(ctx, next.AccessToken); err != nil {
		t.Fatalf("new access token rejected: %v", err)
	}

	// Expired refresh tokens are rejected and removed.
	svc.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	_, err = svc.Refresh(ctx, next.RefreshToken)
	wantAPIError(t, err, http.StatusUnauthorized, "")
	found, err := env.tokens.GetByRefreshToken(testDBC(), next.RefreshToken)
	if err != nil || found != nil {
		t.Fatalf("expired token not removed: %v err=%v", found, err)
	}
}

func TestAuthRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newTestAuth(t, env, nil)
	email, _ := registerTestUser(t, svc)

	cases := []struct {
		in   RegisterInput
		code string
	}{
		{RegisterInput{Email: "nope", Password: "longenough", FirstName: "A", LastName: "B"}, "invalid_email"},
		{RegisterInput{Email: "a@b.test", Password: "short", FirstName: "A", LastName: "B"}, "weak_password"},
		{RegisterInput{Email: "a@b.test", Password: "longenough", FirstName: " ", LastName: "B"}, "missing_name"},
		{RegisterInput{Email: " " + strings.ToUpper(email), Password: "longenough", FirstName: "A", LastName: "B"}, "email_taken"},
	}
	for _, tc := range cases {
		_, err := svc.Register(ctx, tc.in)
		wantAPIError(t, err, http.StatusBadRequest, tc.code)
	}
}

func TestSetContextFromTokenRejectsForeignSignature(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestAuth(t, env, nil)

	claims := JWTClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_, err = svc.SetContextFromToken(context.Background(), forged)
	wantAPIError(t, err, http.StatusUnauthorized, "")

	ctx, err := svc.SetContextFromToken(context.Background(), "")
	if err != nil || ctxutil.GetRequestData(ctx) != nil {
		t.Fatalf("empty token should be a no-op: err=%v", err)
	}
}

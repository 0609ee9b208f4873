package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/maturamate/maturamate-backend/internal/data/repos"
	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/apierr"
	"github.com/maturamate/maturamate-backend/internal/platform/ctxutil"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

const minPasswordLength = 8

type JWTClaims struct {
	jwt.RegisteredClaims
}

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*types.User, error)
	Login(ctx context.Context, email, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	AccessTTL() time.Duration
}

type authService struct {
	log           *logger.Logger
	tx            dbctx.TxRunner
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	avatarService AvatarService
	jwtSecretKey  []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// NewAuthService accepts a nil avatar service; users then start without an avatar.
func NewAuthService(
	log *logger.Logger,
	tx dbctx.TxRunner,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	avatarService AvatarService,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	return &authService{
		log:           log.With("service", "AuthService"),
		tx:            tx,
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		avatarService: avatarService,
		jwtSecretKey:  []byte(jwtSecretKey),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

var errInvalidCredentials = apierr.Unauthorized("invalid email or password")

func (as *authService) AccessTTL() time.Duration { return as.accessTTL }

func (as *authService) Register(ctx context.Context, in RegisterInput) (*types.User, error) {
	in.Email = normalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	if _, err := mail.ParseAddress(in.Email); err != nil || in.Email == "" {
		return nil, apierr.BadRequest("invalid_email", "invalid email")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apierr.BadRequest("weak_password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if in.FirstName == "" || in.LastName == "" {
		return nil, apierr.BadRequest("missing_name", "first and last name are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &types.User{
		ID:        uuid.New(),
		Email:     in.Email,
		Password:  string(hash),
		FirstName: in.FirstName,
		LastName:  in.LastName,
	}
	user.AvatarColor = nrgbaToHex(paletteColorFor(user.ID))

	err = as.tx.InTx(ctx, func(dbc dbctx.Context) error {
		exists, err := as.userRepo.EmailExists(dbc, user.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return apierr.BadRequest("email_taken", "email is already registered")
		}
		if err := as.userRepo.Create(dbc, user); err != nil {
			if dbctx.IsUniqueViolation(err) {
				return apierr.BadRequest("email_taken", "email is already registered")
			}
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if as.avatarService != nil {
		if err := as.avatarService.CreateAndUploadUserAvatar(ctx, user); err != nil {
			as.log.Warn("Avatar generation failed (continuing)", "user_id", user.ID, "error", err)
		}
	}
	as.log.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (as *authService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, errInvalidCredentials
	}
	dbc := dbctx.Of(ctx)
	user, err := as.userRepo.GetByEmail(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("load user by email: %w", err)
	}
	if user == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}

	var pair *TokenPair
	err = as.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if n, err := as.userTokenRepo.PurgeExpired(dbc, user.ID, as.now()); err != nil {
			return fmt.Errorf("delete expired tokens: %w", err)
		} else if n > 0 {
			as.log.Debug("Expired user tokens removed", "user_id", user.ID, "count", n)
		}
		p, err := as.issueTokens(dbc, user.ID)
		if err != nil {
			return err
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (as *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	refreshToken = strings.TrimSpace(refreshToken)
	if refreshToken == "" {
		return nil, apierr.Unauthorized("refresh token required")
	}
	existing, err := as.userTokenRepo.GetByRefreshToken(dbctx.Of(ctx), refreshToken)
	if err != nil {
		return nil, fmt.Errorf("load refresh token: %w", err)
	}
	if existing == nil {
		return nil, apierr.Unauthorized("invalid refresh token")
	}
	if existing.ExpiresAt.Before(as.now()) {
		if err := as.userTokenRepo.Revoke(dbctx.Of(ctx), existing.ID); err != nil {
			as.log.Warn("Failed to delete expired refresh token", "error", err)
		}
		return nil, apierr.Unauthorized("refresh token expired")
	}

	var pair *TokenPair
	err = as.tx.InTx(ctx, func(dbc dbctx.Context) error {
		p, err := as.issueTokens(dbc, existing.UserID)
		if err != nil {
			return err
		}
		if err := as.userTokenRepo.Revoke(dbc, existing.ID); err != nil {
			return fmt.Errorf("remove old refresh token: %w", err)
		}
		pair = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pair, nil
}

func (as *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if sessionID == uuid.Nil {
		return errUnauthenticated
	}
	if err := as.userTokenRepo.Revoke(dbctx.Of(ctx), sessionID); err != nil {
		return fmt.Errorf("delete user token: %w", err)
	}
	return nil
}

func (as *authService) issueTokens(dbc dbctx.Context, userID uuid.UUID) (*TokenPair, error) {
	tokenID := uuid.New()
	access, err := as.generateAccessToken(userID, tokenID)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	row := &types.UserToken{
		ID:           tokenID,
		UserID:       userID,
		AccessToken:  access,
		RefreshToken: uuid.NewString(),
		ExpiresAt:    as.now().Add(as.refreshTTL),
	}
	if err := as.userTokenRepo.Create(dbc, row); err != nil {
		return nil, fmt.Errorf("create user token: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: row.RefreshToken,
		ExpiresIn:    int64(as.accessTTL / time.Second),
	}, nil
}

func (as *authService) generateAccessToken(userID, tokenID uuid.UUID) (string, error) {
	now := as.now()
	claims := JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID.String(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(as.jwtSecretKey)
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return as.jwtSecretKey, nil
	}, jwt.WithTimeFunc(as.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ctx, apierr.Unauthorized("token expired")
		}
		return ctx, apierr.Unauthorized("invalid token")
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apierr.Unauthorized("invalid token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthorized("invalid token")
	}

	session, err := as.userTokenRepo.GetByAccessToken(dbctx.Of(ctx), tokenString)
	if err != nil {
		return ctx, fmt.Errorf("load user token: %w", err)
	}
	if session == nil || session.UserID != userID {
		return ctx, apierr.Unauthorized("session revoked")
	}
	rd := &ctxutil.RequestData{
		UserID:       userID,
		SessionID:    session.ID,
		TokenString:  tokenString,
		RefreshToken: session.RefreshToken,
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

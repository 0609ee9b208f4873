package auth

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

// UserTokenRepo stores one row per login session. The row id doubles as the
// access token's jti, so deleting it revokes both tokens.
type UserTokenRepo interface {
	Create(dbc dbctx.Context, token *types.UserToken) error
	GetByAccessToken(dbc dbctx.Context, accessToken string) (*types.UserToken, error)
	GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*types.UserToken, error)
	Revoke(dbc dbctx.Context, tokenIDs ...uuid.UUID) error
	PurgeExpired(dbc dbctx.Context, userID uuid.UUID, now time.Time) (int64, error)
}

type userTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return &userTokenRepo{db: db, log: baseLog.With("repo", "UserTokenRepo")}
}

func (r *userTokenRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *userTokenRepo) Create(dbc dbctx.Context, token *types.UserToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	return r.tx(dbc).Create(token).Error
}

func (r *userTokenRepo) GetByAccessToken(dbc dbctx.Context, accessToken string) (*types.UserToken, error) {
	return r.first(dbc, "access_token = ?", accessToken)
}

func (r *userTokenRepo) GetByRefreshToken(dbc dbctx.Context, refreshToken string) (*types.UserToken, error) {
	return r.first(dbc, "refresh_token = ?", refreshToken)
}

// first returns nil, nil when nothing matches.
func (r *userTokenRepo) first(dbc dbctx.Context, query string, arg string) (*types.UserToken, error) {
	if arg == "" {
		return nil, nil
	}
	var row types.UserToken
	err := r.tx(dbc).Where(query, arg).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Revoke hard-deletes the session rows.
func (r *userTokenRepo) Revoke(dbc dbctx.Context, tokenIDs ...uuid.UUID) error {
	if len(tokenIDs) == 0 {
		return nil
	}
	return r.tx(dbc).Unscoped().Where("id IN ?", tokenIDs).Delete(&types.UserToken{}).Error
}

// PurgeExpired drops a user's refresh-expired sessions; run on login.
func (r *userTokenRepo) PurgeExpired(dbc dbctx.Context, userID uuid.UUID, now time.Time) (int64, error) {
	res := r.tx(dbc).
		Unscoped().
		Where("user_id = ? AND expires_at < ?", userID, now).
		Delete(&types.UserToken{})
	return res.RowsAffected, res.Error
}

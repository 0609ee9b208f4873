package user

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

// UserRepo lookups return nil, nil for a missing user. Emails are matched
// case-insensitively.
type UserRepo interface {
	Create(dbc dbctx.Context, user *types.User) error
	GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	UpdateAvatarFields(dbc dbctx.Context, userID uuid.UUID, bucketKey, avatarColor string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepo) Create(dbc dbctx.Context, user *types.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.Email = normalizeEmail(user.Email)
	return r.tx(dbc).Create(user).Error
}

func (r *userRepo) GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	return r.take(r.tx(dbc).Where("id = ?", userID))
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	return r.take(r.tx(dbc).Where("lower(email) = ?", email))
}

func (r *userRepo) take(q *gorm.DB) (*types.User, error) {
	var u types.User
	err := q.Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	err := r.tx(dbc).
		Model(&types.User{}).
		Where("lower(email) = ?", normalizeEmail(email)).
		Count(&count).Error
	return count > 0, err
}

func (r *userRepo) UpdateAvatarFields(dbc dbctx.Context, userID uuid.UUID, bucketKey, avatarColor string) error {
	return r.tx(dbc).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"avatar_bucket_key": bucketKey,
			"avatar_color":      avatarColor,
		}).Error
}

package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type EmailPreferenceRepo interface {
	MarkUnsubscribed(dbc dbctx.Context, email string, at time.Time) error
}

type emailPreferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEmailPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) EmailPreferenceRepo {
	repoLog := baseLog.With("repo", "EmailPreferenceRepo")
	return &emailPreferenceRepo{db: db, log: repoLog}
}

// MarkUnsubscribed upserts on email. Repeated calls keep the first timestamp.
func (r *emailPreferenceRepo) MarkUnsubscribed(dbc dbctx.Context, email string, at time.Time) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	row := &types.EmailPreference{
		ID:             uuid.New(),
		Email:          strings.ToLower(strings.TrimSpace(email)),
		UnsubscribedAt: &at,
	}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}},
			DoUpdates: clause.Assignments(map[string]any{
				"unsubscribed_at": gorm.Expr("COALESCE(email_preference.unsubscribed_at, ?)", at),
				"updated_at":      at,
			}),
		}).
		Create(row).Error
}

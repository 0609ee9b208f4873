package billing

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
	"github.com/maturamate/maturamate-backend/internal/platform/logger"
)

type SubscriptionRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Subscription, error)
	GetByStripeSubscriptionID(dbc dbctx.Context, stripeSubscriptionID string) (*types.Subscription, error)
	UpsertPending(dbc dbctx.Context, sub *types.Subscription) error
	UpdateByUserID(dbc dbctx.Context, userID uuid.UUID, updates map[string]any) (int64, error)
	UpdateByStripeSubscriptionID(dbc dbctx.Context, stripeSubscriptionID string, updates map[string]any) (int64, error)
}

type subscriptionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) SubscriptionRepo {
	repoLog := baseLog.With("repo", "SubscriptionRepo")
	return &subscriptionRepo{db: db, log: repoLog}
}

func (r *subscriptionRepo) tx(dbc dbctx.Context) *gorm.DB {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(dbc.Ctx)
}

func (r *subscriptionRepo) first(q *gorm.DB) (*types.Subscription, error) {
	var rows []*types.Subscription
	if err := q.Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *subscriptionRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.Subscription, error) {
	return r.first(r.tx(dbc).Where("user_id = ?", userID))
}

func (r *subscriptionRepo) GetByStripeSubscriptionID(dbc dbctx.Context, stripeSubscriptionID string) (*types.Subscription, error) {
	return r.first(r.tx(dbc).Where("stripe_subscription_id = ?", stripeSubscriptionID))
}

// UpsertPending records a checkout in progress. A user has at most one row;
// an earlier pending or canceled row is reused.
func (r *subscriptionRepo) UpsertPending(dbc dbctx.Context, sub *types.Subscription) error {
	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	sub.Status = types.SubscriptionPending
	return r.tx(dbc).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":                     types.SubscriptionPending,
				"plan_type":                  sub.PlanType,
				"subject_ids":                sub.SubjectIDs,
				"stripe_checkout_session_id": sub.StripeCheckoutSessionID,
				"updated_at":                 time.Now().UTC(),
			}),
		}).
		Create(sub).Error
}

func (r *subscriptionRepo) UpdateByUserID(dbc dbctx.Context, userID uuid.UUID, updates map[string]any) (int64, error) {
	res := r.tx(dbc).Model(&types.Subscription{}).Where("user_id = ?", userID).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *subscriptionRepo) UpdateByStripeSubscriptionID(dbc dbctx.Context, stripeSubscriptionID string, updates map[string]any) (int64, error) {
	if stripeSubscriptionID == "" {
		return 0, nil
	}
	res := r.tx(dbc).Model(&types.Subscription{}).Where("stripe_subscription_id = ?", stripeSubscriptionID).Updates(updates)
	return res.RowsAffected, res.Error
}

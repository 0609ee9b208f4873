package billing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/maturamate/maturamate-backend/internal/data/repos/testutil"
	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
)

func TestSubscriptionRepoUpsertAndUpdate(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewSubscriptionRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "billing-"+uuid.NewString()+"@example.com")

	if got, err := repo.GetByUserID(dbc, u.ID); err != nil || got != nil {
		t.Fatalf("GetByUserID empty: got=%+v err=%v", got, err)
	}

	first := &types.Subscription{
		UserID:                  u.ID,
		PlanType:                types.PlanCustom,
		SubjectIDs:              datatypes.JSON([]byte(`["a"]`)),
		StripeCheckoutSessionID: "cs_1",
	}
	if err := repo.UpsertPending(dbc, first); err != nil {
		t.Fatalf("UpsertPending: %v", err)
	}
	second := &types.Subscription{
		UserID:                  u.ID,
		PlanType:                types.PlanCustom,
		SubjectIDs:              datatypes.JSON([]byte(`["a","b"]`)),
		StripeCheckoutSessionID: "cs_2",
	}
	if err := repo.UpsertPending(dbc, second); err != nil {
		t.Fatalf("UpsertPending again: %v", err)
	}

	var count int64
	if err := tx.Model(&types.Subscription{}).Where("user_id = ?", u.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one subscription row, got %d", count)
	}

	got, err := repo.GetByUserID(dbc, u.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByUserID: got=%+v err=%v", got, err)
	}
	if got.StripeCheckoutSessionID != "cs_2" || got.Status != types.SubscriptionPending {
		t.Fatalf("upsert did not refresh row: %+v", got)
	}

	n, err := repo.UpdateByUserID(dbc, u.ID, map[string]any{
		"status":                 types.SubscriptionActive,
		"stripe_subscription_id": "sub_1",
	})
	if err != nil || n != 1 {
		t.Fatalf("UpdateByUserID: n=%d err=%v", n, err)
	}

	n, err = repo.UpdateByStripeSubscriptionID(dbc, "sub_1", map[string]any{"status": types.SubscriptionCanceled})
	if err != nil || n != 1 {
		t.Fatalf("UpdateByStripeSubscriptionID: n=%d err=%v", n, err)
	}
	bySub, err := repo.GetByStripeSubscriptionID(dbc, "sub_1")
	if err != nil || bySub == nil || bySub.Status != types.SubscriptionCanceled {
		t.Fatalf("GetByStripeSubscriptionID: got=%+v err=%v", bySub, err)
	}

	if n, err := repo.UpdateByStripeSubscriptionID(dbc, "", map[string]any{"status": types.SubscriptionActive}); err != nil || n != 0 {
		t.Fatalf("UpdateByStripeSubscriptionID empty: n=%d err=%v", n, err)
	}
}

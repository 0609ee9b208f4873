package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/maturamate/maturamate-backend/internal/data/repos/testutil"
	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
)

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "usertokenrepo-"+uuid.NewString()+"@example.com")

	makeToken := func(access, refresh string, expires time.Time) *types.UserToken {
		return &types.UserToken{
			UserID:       u.ID,
			AccessToken:  access + "-" + uuid.NewString(),
			RefreshToken: refresh + "-" + uuid.NewString(),
			ExpiresAt:    expires,
		}
	}

	now := time.Now()
	live := makeToken("access-1", "refresh-1", now.Add(time.Hour))
	stale := makeToken("access-2", "refresh-2", now.Add(-time.Hour))
	for _, tok := range []*types.UserToken{live, stale} {
		if err := repo.Create(dbc, tok); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	if live.ID == uuid.Nil {
		t.Fatalf("Create: expected id to be assigned")
	}

	if got, err := repo.GetByAccessToken(dbc, live.AccessToken); err != nil || got == nil || got.ID != live.ID {
		t.Fatalf("GetByAccessToken: err=%v got=%+v", err, got)
	}
	if got, err := repo.GetByRefreshToken(dbc, stale.RefreshToken); err != nil || got == nil || got.ID != stale.ID {
		t.Fatalf("GetByRefreshToken: err=%v got=%+v", err, got)
	}
	if got, err := repo.GetByRefreshToken(dbc, "missing"); err != nil || got != nil {
		t.Fatalf("GetByRefreshToken(missing): err=%v got=%+v", err, got)
	}

	n, err := repo.PurgeExpired(dbc, u.ID, now)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	if n != 1 {
		t.Fatalf("PurgeExpired: expected 1 row, got %d", n)
	}

	if err := repo.Revoke(dbc, live.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if got, err := repo.GetByAccessToken(dbc, live.AccessToken); err != nil || got != nil {
		t.Fatalf("GetByAccessToken after revoke: err=%v got=%+v", err, got)
	}
	var remaining int64
	if err := tx.Unscoped().Model(&types.UserToken{}).Where("user_id = ?", u.ID).Count(&remaining).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected hard deletes, %d rows left", remaining)
	}
}

package progress

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/maturamate/maturamate-backend/internal/data/repos/testutil"
	types "github.com/maturamate/maturamate-backend/internal/domain"
	"github.com/maturamate/maturamate-backend/internal/platform/dbctx"
)

func TestContentRelationRepoInsertDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewContentRelationRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "relation-"+uuid.NewString()+"@example.com")

	key := RelationKey{UserID: u.ID, Kind: types.RelationFlag, ContentType: types.ContentExercise, ContentID: uuid.New()}

	created, err := repo.Insert(dbc, key, nil)
	if err != nil || !created {
		t.Fatalf("Insert: created=%v err=%v", created, err)
	}
	created, err = repo.Insert(dbc, key, nil)
	if err != nil {
		t.Fatalf("Insert duplicate: %v", err)
	}
	if created {
		t.Fatalf("Insert duplicate: expected created=false")
	}

	// same content, different kind is a separate relation
	favKey := key
	favKey.Kind = types.RelationCompletion
	if created, err := repo.Insert(dbc, favKey, nil); err != nil || !created {
		t.Fatalf("Insert other kind: created=%v err=%v", created, err)
	}

	exists, err := repo.Exists(dbc, key)
	if err != nil || !exists {
		t.Fatalf("Exists: exists=%v err=%v", exists, err)
	}

	deleted, err := repo.Delete(dbc, key)
	if err != nil || !deleted {
		t.Fatalf("Delete: deleted=%v err=%v", deleted, err)
	}
	deleted, err = repo.Delete(dbc, key)
	if err != nil || deleted {
		t.Fatalf("Delete absent: deleted=%v err=%v", deleted, err)
	}
	if exists, _ := repo.Exists(dbc, favKey); !exists {
		t.Fatalf("Delete removed the wrong relation")
	}
}

func TestContentRelationRepoBulkAndList(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewContentRelationRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "relation-bulk-"+uuid.NewString()+"@example.com")
	other := testutil.SeedUser(t, ctx, tx, "relation-bulk-other-"+uuid.NewString()+"@example.com")

	a, b, c, d := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{a, c} {
		if _, err := repo.Insert(dbc, RelationKey{UserID: u.ID, Kind: types.RelationFlag, ContentType: types.ContentExerciseCard, ContentID: id}, nil); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	if _, err := repo.Insert(dbc, RelationKey{UserID: other.ID, Kind: types.RelationFlag, ContentType: types.ContentExerciseCard, ContentID: b}, nil); err != nil {
		t.Fatalf("Insert other user: %v", err)
	}

	got, err := repo.ExistingContentIDs(dbc, u.ID, types.RelationFlag, types.ContentExerciseCard, []uuid.UUID{a, b, c, d})
	if err != nil {
		t.Fatalf("ExistingContentIDs: %v", err)
	}
	set := map[uuid.UUID]bool{}
	for _, id := range got {
		set[id] = true
	}
	if len(got) != 2 || !set[a] || !set[c] {
		t.Fatalf("ExistingContentIDs: unexpected %v", got)
	}

	rows, err := repo.ListByUser(dbc, u.ID, types.RelationFlag, types.ContentExerciseCard, 0)
	if err != nil || len(rows) != 2 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}
	rows, err = repo.ListByUser(dbc, u.ID, types.RelationFlag, types.ContentExerciseCard, 1)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByUser limit: err=%v len=%d", err, len(rows))
	}

	n, err := repo.CountByUser(dbc, u.ID, types.RelationFlag, types.ContentExerciseCard)
	if err != nil || n != 2 {
		t.Fatalf("CountByUser: n=%d err=%v", n, err)
	}
}

func TestContentRelationRepoKeepsCorrectness(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewContentRelationRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "relation-correct-"+uuid.NewString()+"@example.com")
	key := RelationKey{UserID: u.ID, Kind: types.RelationCompletion, ContentType: types.ContentExercise, ContentID: uuid.New()}

	yes, no := true, false
	if _, err := repo.Insert(dbc, key, &yes); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if created, err := repo.Insert(dbc, key, &no); err != nil || created {
		t.Fatalf("Insert again: created=%v err=%v", created, err)
	}

	rows, err := repo.ListByUser(dbc, u.ID, types.RelationCompletion, types.ContentExercise, 0)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(rows))
	}
	if rows[0].IsCorrect == nil || !*rows[0].IsCorrect {
		t.Fatalf("first completion result should be kept: %+v", rows[0])
	}
}

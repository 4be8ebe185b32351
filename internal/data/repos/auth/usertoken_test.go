package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/boardside/kilterboard-backend/internal/data/repos/testutil"
	types "github.com/boardside/kilterboard-backend/internal/domain"
	"github.com/boardside/kilterboard-backend/internal/pkg/dbctx"
)

func TestUserTokenRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewUserTokenRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "usertokenrepo@example.com", "usertokenrepo")

	makeToken := func(refresh string, expires time.Time) *types.UserToken {
		return &types.UserToken{
			ID:           uuid.New(),
			UserID:       u.ID,
			RefreshToken: refresh,
			ExpiresAt:    expires,
		}
	}

	t1 := makeToken("refresh-1", time.Now().Add(1*time.Hour))
	if _, err := repo.Create(dbc, []*types.UserToken{t1}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByRefreshToken(dbc, "refresh-1")
	if err != nil || got == nil || got.ID != t1.ID {
		t.Fatalf("GetByRefreshToken: err=%v got=%+v", err, got)
	}
	got, err = repo.GetByRefreshToken(dbc, "missing")
	if err != nil {
		t.Fatalf("GetByRefreshToken missing: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing token, got %+v", got)
	}

	if rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 1 {
		t.Fatalf("GetByUserIDs: err=%v len=%d", err, len(rows))
	}

	if err := repo.DeleteByRefreshToken(dbc, "refresh-1"); err != nil {
		t.Fatalf("DeleteByRefreshToken: %v", err)
	}
	if rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after DeleteByRefreshToken: err=%v len=%d", err, len(rows))
	}

	t2 := makeToken("refresh-2", time.Now().Add(-1*time.Hour))
	t3 := makeToken("refresh-3", time.Now().Add(1*time.Hour))
	if _, err := repo.Create(dbc, []*types.UserToken{t2, t3}); err != nil {
		t.Fatalf("seed tokens: %v", err)
	}
	if err := repo.DeleteExpired(dbc, time.Now()); err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID})
	if err != nil || len(rows) != 1 || rows[0].RefreshToken != "refresh-3" {
		t.Fatalf("after DeleteExpired: err=%v rows=%d", err, len(rows))
	}

	if err := repo.DeleteByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("DeleteByUserIDs: %v", err)
	}
	if rows, err := repo.GetByUserIDs(dbc, []uuid.UUID{u.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after DeleteByUserIDs: err=%v len=%d", err, len(rows))
	}
}

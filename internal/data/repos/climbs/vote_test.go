package climbs

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/boardside/kilterboard-backend/internal/data/repos/testutil"
	types "github.com/boardside/kilterboard-backend/internal/domain"
	"github.com/boardside/kilterboard-backend/internal/pkg/dbctx"
)

func TestVoteRepoUpsert(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewVoteRepo(db, testutil.Logger(t))

	u := testutil.SeedUser(t, ctx, tx, "voterepo@example.com", "voterepo")
	creator := testutil.SeedUser(t, ctx, tx, "voterepo-creator@example.com", "voterepo-creator")
	p := testutil.SeedProblem(t, ctx, tx, creator.ID, true)

	v := &types.Vote{
		UserID:          u.ID,
		ProblemID:       p.ID,
		StarRating:      3,
		DifficultyGrade: "V4",
	}
	if err := repo.Upsert(dbc, v); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// Resubmitting overwrites both axes of the existing row.
	for _, update := range []struct {
		stars int
		grade string
	}{
		{stars: 4, grade: "V5"},
		{stars: 1, grade: "V3"},
	} {
		v2 := &types.Vote{
			UserID:          u.ID,
			ProblemID:       p.ID,
			StarRating:      update.stars,
			DifficultyGrade: update.grade,
		}
		if err := repo.Upsert(dbc, v2); err != nil {
			t.Fatalf("Upsert update: %v", err)
		}
	}

	count, err := repo.CountByProblem(dbc, p.ID)
	if err != nil {
		t.Fatalf("CountByProblem: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one vote row, got %d", count)
	}

	got, err := repo.GetByUserAndProblem(dbc, u.ID, p.ID)
	if err != nil {
		t.Fatalf("GetByUserAndProblem: %v", err)
	}
	if got == nil {
		t.Fatal("expected vote row, got nil")
	}
	if got.StarRating != 1 || got.DifficultyGrade != "V3" {
		t.Fatalf("expected last write to win, got stars=%d grade=%q", got.StarRating, got.DifficultyGrade)
	}

	// A second user gets a second row.
	u2 := testutil.SeedUser(t, ctx, tx, "voterepo2@example.com", "voterepo2")
	if err := repo.Upsert(dbc, &types.Vote{
		UserID:          u2.ID,
		ProblemID:       p.ID,
		StarRating:      2,
		DifficultyGrade: "V4",
	}); err != nil {
		t.Fatalf("Upsert second user: %v", err)
	}
	rows, err := repo.ListByProblem(dbc, p.ID)
	if err != nil {
		t.Fatalf("ListByProblem: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 vote rows, got %d", len(rows))
	}
}

func TestVoteRepoGetMissing(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewVoteRepo(db, testutil.Logger(t))

	got, err := repo.GetByUserAndProblem(dbc, uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("GetByUserAndProblem: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing vote, got %+v", got)
	}
}

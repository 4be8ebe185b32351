package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/boardside/kilterboard-backend/internal/domain"
	"github.com/boardside/kilterboard-backend/internal/domain/holds"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Username: username,
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProblem(tb testing.TB, ctx context.Context, tx *gorm.DB, creatorID uuid.UUID, published bool) *types.Problem {
	tb.Helper()
	cfg := holds.Configuration{
		"A1": holds.RoleStart,
		"C4": holds.RoleHand,
		"E9": holds.RoleFinish,
	}
	raw, err := holds.Encode(cfg)
	if err != nil {
		tb.Fatalf("encode holds: %v", err)
	}
	p := &types.Problem{
		ID:        uuid.New(),
		CreatorID: creatorID,
		BoardName: "kilter_original",
		Name:      "seed problem",
		Grade:     "V4",
		Holds:     datatypes.JSON(raw),
		Tags:      datatypes.JSON([]byte(`["crimpy"]`)),
		Published: published,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed problem: %v", err)
	}
	return p
}

func SeedVote(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, problemID uuid.UUID, stars int, grade string) *types.Vote {
	tb.Helper()
	v := &types.Vote{
		ID:              uuid.New(),
		UserID:          userID,
		ProblemID:       problemID,
		StarRating:      stars,
		DifficultyGrade: grade,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed vote: %v", err)
	}
	return v
}

package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boardside/kilterboard-backend/internal/clients/redis"
	"github.com/boardside/kilterboard-backend/internal/data/repos"
	"github.com/boardside/kilterboard-backend/internal/data/repos/testutil"
	"github.com/boardside/kilterboard-backend/internal/domain/climbs"
	"github.com/boardside/kilterboard-backend/internal/domain/holds"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
)

func newVoteService(t *testing.T, db *gorm.DB, log *logger.Logger) VoteService {
	t.Helper()
	return NewVoteService(
		db, log,
		repos.NewVoteRepo(db, log),
		repos.NewProblemRepo(db, log),
		redis.NewRatingCache(nil, log, 0),
	)
}

func publishedProblem(t *testing.T, db *gorm.DB, log *logger.Logger) (ProblemService, *testProblem) {
	t.Helper()
	svc := newProblemService(t, db, log)
	creator := newTestUser(t, db, log)
	ctx := authedCtx(creator)

	cfg := holds.Configuration{"A1": holds.RoleStart, "E9": holds.RoleFinish}
	p, err := svc.CreateDraft(ctx, "kilter_original", cfg)
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if _, err := svc.Publish(ctx, p.ID, "vote target", "V4", []string{"techy"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	return svc, &testProblem{id: p.ID, creatorID: creator.ID}
}

func TestVoteServiceSubmitValidation(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	votes := newVoteService(t, db, log)
	_, p := publishedProblem(t, db, log)

	voter := newTestUser(t, db, log)
	ctx := authedCtx(voter)

	var voteErr *climbs.VoteError
	if _, err := votes.Submit(ctx, p.id, 0, "V4"); !errors.As(err, &voteErr) {
		t.Fatalf("expected vote error for 0 stars, got %v", err)
	} else if voteErr.Code != climbs.VoteCodeInvalidStarRating {
		t.Fatalf("expected star rating code, got %s", voteErr.Code)
	}
	if _, err := votes.Submit(ctx, p.id, 5, "V4"); !errors.As(err, &voteErr) {
		t.Fatalf("expected vote error for 5 stars, got %v", err)
	}
	if _, err := votes.Submit(ctx, p.id, 3, "4"); !errors.As(err, &voteErr) {
		t.Fatalf("expected vote error for bare grade, got %v", err)
	} else if voteErr.Code != climbs.VoteCodeInvalidGradeFormat {
		t.Fatalf("expected grade format code, got %s", voteErr.Code)
	}
	if _, err := votes.Submit(ctx, p.id, 3, "V18"); !errors.As(err, &voteErr) {
		t.Fatalf("expected vote error for out-of-scale grade, got %v", err)
	}

	if _, err := votes.Submit(ctx, p.id, 3, "V4"); err != nil {
		t.Fatalf("Submit: %v", err)
	}
}

func TestVoteServiceRejectsDrafts(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	votes := newVoteService(t, db, log)
	problems := newProblemService(t, db, log)

	creator := newTestUser(t, db, log)
	cfg := holds.Configuration{"A1": holds.RoleStart, "E9": holds.RoleFinish}
	draft, err := problems.CreateDraft(authedCtx(creator), "kilter_original", cfg)
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}

	voter := newTestUser(t, db, log)
	var voteErr *climbs.VoteError
	if _, err := votes.Submit(authedCtx(voter), draft.ID, 3, "V4"); !errors.As(err, &voteErr) {
		t.Fatalf("expected vote error for draft, got %v", err)
	} else if voteErr.Code != climbs.VoteCodeProblemNotPublished {
		t.Fatalf("expected not published code, got %s", voteErr.Code)
	}
}

func TestVoteServiceAggregate(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	votes := newVoteService(t, db, log)
	_, p := publishedProblem(t, db, log)

	// Four voters; V4 and V6 tie on count, the aggregate reports V4.
	for _, v := range []struct {
		stars int
		grade string
	}{
		{3, "V4"},
		{4, "V4"},
		{2, "V6"},
		{3, "V6"},
	} {
		voter := newTestUser(t, db, log)
		if _, err := votes.Submit(authedCtx(voter), p.id, v.stars, v.grade); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	agg, err := votes.Aggregate(authedCtx(newTestUser(t, db, log)), p.id)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if agg.VoteCount != 4 {
		t.Fatalf("expected 4 votes, got %d", agg.VoteCount)
	}
	if agg.MeanStars != 3.0 {
		t.Fatalf("expected mean 3.0, got %v", agg.MeanStars)
	}
	if agg.ConsensusGrade != "V4" {
		t.Fatalf("expected consensus V4 on tie, got %s", agg.ConsensusGrade)
	}
	if agg.StarDistribution != [4]int{0, 1, 2, 1} {
		t.Fatalf("unexpected star distribution %v", agg.StarDistribution)
	}
}

func TestVoteServiceResubmitOverwrites(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	votes := newVoteService(t, db, log)
	_, p := publishedProblem(t, db, log)

	voter := newTestUser(t, db, log)
	ctx := authedCtx(voter)

	first, err := votes.Submit(ctx, p.id, 2, "V3")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	second, err := votes.Submit(ctx, p.id, 4, "V5")
	if err != nil {
		t.Fatalf("Submit again: %v", err)
	}

	// A resubmission overwrites the existing row in place: same row
	// identity and creation time, new values and updated_at.
	if second.ID != first.ID {
		t.Fatalf("resubmission changed row id: %s -> %s", first.ID, second.ID)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("resubmission changed created_at: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if second.StarRating != 4 || second.DifficultyGrade != "V5" {
		t.Fatalf("returned vote carries stale values: %+v", second)
	}

	agg, err := votes.Aggregate(ctx, p.id)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if agg.VoteCount != 1 {
		t.Fatalf("resubmission created extra rows: count=%d", agg.VoteCount)
	}
	if agg.ConsensusGrade != "V5" || agg.MeanStars != 4.0 {
		t.Fatalf("resubmission did not overwrite: %+v", agg)
	}
}

type testProblem struct {
	id        uuid.UUID
	creatorID uuid.UUID
}

package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/boardside/kilterboard-backend/internal/clients/redis"
	"github.com/boardside/kilterboard-backend/internal/data/repos"
	types "github.com/boardside/kilterboard-backend/internal/domain"
	"github.com/boardside/kilterboard-backend/internal/domain/climbs"
	"github.com/boardside/kilterboard-backend/internal/pkg/dbctx"
	apperrors "github.com/boardside/kilterboard-backend/internal/pkg/errors"
	"github.com/boardside/kilterboard-backend/internal/platform/ctxutil"
	"github.com/boardside/kilterboard-backend/internal/platform/envutil"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
)

type VoteService interface {
	// Submit records the caller's vote on a problem. One row per
	// (user, problem): voting again replaces both axes.
	Submit(ctx context.Context, problemID uuid.UUID, starRating int, difficultyGrade string) (*types.Vote, error)
	// Aggregate computes the problem's community rating across all votes.
	Aggregate(ctx context.Context, problemID uuid.UUID) (*types.AggregateRating, error)
}

type voteService struct {
	db          *gorm.DB
	log         *logger.Logger
	voteRepo    repos.VoteRepo
	problemRepo repos.ProblemRepo
	cache       redisclient.RatingCache

	allowArchived bool
}

func NewVoteService(
	db *gorm.DB,
	log *logger.Logger,
	voteRepo repos.VoteRepo,
	problemRepo repos.ProblemRepo,
	cache redisclient.RatingCache,
) VoteService {
	return &voteService{
		db:          db,
		log:         log.With("service", "VoteService"),
		voteRepo:    voteRepo,
		problemRepo: problemRepo,
		cache:       cache,

		// Archived problems reject new votes unless explicitly allowed.
		allowArchived: envutil.Bool("VOTES_ALLOW_ARCHIVED", false),
	}
}

func (vs *voteService) Submit(ctx context.Context, problemID uuid.UUID, starRating int, difficultyGrade string) (*types.Vote, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}

	if starRating < climbs.MinStarRating || starRating > climbs.MaxStarRating {
		return nil, &climbs.VoteError{
			Code:   climbs.VoteCodeInvalidStarRating,
			Detail: fmt.Sprintf("star rating %d outside [%d,%d]", starRating, climbs.MinStarRating, climbs.MaxStarRating),
		}
	}
	grade, err := climbs.ParseGrade(difficultyGrade)
	if err != nil {
		return nil, &climbs.VoteError{
			Code:   climbs.VoteCodeInvalidGradeFormat,
			Detail: err.Error(),
		}
	}

	vote := &types.Vote{
		UserID:          rd.UserID,
		ProblemID:       problemID,
		StarRating:      starRating,
		DifficultyGrade: grade.String(),
	}

	if err := vs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		problem, err := vs.problemRepo.GetByIDAny(dbc, problemID)
		if err != nil {
			return fmt.Errorf("fetch problem: %w", err)
		}
		if problem == nil {
			return apperrors.ErrNotFound
		}
		switch problem.State() {
		case climbs.StatePublished:
		case climbs.StateArchived:
			if !vs.allowArchived {
				return &climbs.VoteError{
					Code:   climbs.VoteCodeProblemNotPublished,
					Detail: "problem is archived",
				}
			}
		default:
			return &climbs.VoteError{
				Code:   climbs.VoteCodeProblemNotPublished,
				Detail: "problem is a draft",
			}
		}

		if err := vs.voteRepo.Upsert(dbc, vote); err != nil {
			return err
		}

		// On a repeat vote the conflict path keeps the existing row's id
		// and created_at; re-read so the caller sees the stored identity.
		stored, err := vs.voteRepo.GetByUserAndProblem(dbc, rd.UserID, problemID)
		if err != nil {
			return fmt.Errorf("reload vote: %w", err)
		}
		if stored == nil {
			return fmt.Errorf("reload vote: %w", apperrors.ErrNotFound)
		}
		vote = stored
		return nil
	}); err != nil {
		return nil, err
	}

	// The cached aggregate is stale the moment a vote lands.
	vs.cache.Invalidate(ctx, problemID)

	vs.log.Info("vote recorded", "problem_id", problemID, "user_id", rd.UserID)
	return vote, nil
}

func (vs *voteService) Aggregate(ctx context.Context, problemID uuid.UUID) (*types.AggregateRating, error) {
	if agg, ok := vs.cache.Get(ctx, problemID); ok {
		return agg, nil
	}

	problem, err := vs.problemRepo.GetByIDAny(dbctx.Context{Ctx: ctx}, problemID)
	if err != nil {
		return nil, fmt.Errorf("fetch problem: %w", err)
	}
	if problem == nil {
		return nil, apperrors.ErrNotFound
	}

	votes, err := vs.voteRepo.ListByProblem(dbctx.Context{Ctx: ctx}, problemID)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}

	agg := climbs.ComputeAggregate(votes)
	vs.cache.Set(ctx, problemID, agg)
	return &agg, nil
}

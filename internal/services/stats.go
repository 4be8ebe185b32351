package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boardside/kilterboard-backend/internal/data/repos"
	types "github.com/boardside/kilterboard-backend/internal/domain"
	"github.com/boardside/kilterboard-backend/internal/domain/climbs"
	"github.com/boardside/kilterboard-backend/internal/pkg/dbctx"
	apperrors "github.com/boardside/kilterboard-backend/internal/pkg/errors"
	"github.com/boardside/kilterboard-backend/internal/platform/ctxutil"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
)

type StatsService interface {
	// RecordAttempt logs one try on a problem and folds it into the
	// climber's statistics. A successful attempt bumps the problem's
	// ascent count. All three writes land in one transaction.
	RecordAttempt(ctx context.Context, problemID uuid.UUID, grade string, success bool) (*types.Attempt, error)
	GetStatistics(ctx context.Context) (*types.UserStatistics, error)
	ListAttempts(ctx context.Context, problemID uuid.UUID) ([]*types.Attempt, error)
}

type statsService struct {
	db          *gorm.DB
	log         *logger.Logger
	attemptRepo repos.AttemptRepo
	statsRepo   repos.StatisticsRepo
	problemRepo repos.ProblemRepo
}

func NewStatsService(
	db *gorm.DB,
	log *logger.Logger,
	attemptRepo repos.AttemptRepo,
	statsRepo repos.StatisticsRepo,
	problemRepo repos.ProblemRepo,
) StatsService {
	return &statsService{
		db:          db,
		log:         log.With("service", "StatsService"),
		attemptRepo: attemptRepo,
		statsRepo:   statsRepo,
		problemRepo: problemRepo,
	}
}

func (ss *statsService) RecordAttempt(ctx context.Context, problemID uuid.UUID, grade string, success bool) (*types.Attempt, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}

	g, err := climbs.ParseGrade(grade)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}

	attempt := &types.Attempt{
		ID:        uuid.New(),
		UserID:    rd.UserID,
		ProblemID: problemID,
		Grade:     g.String(),
		Success:   success,
	}

	if err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		problem, err := ss.problemRepo.GetByIDAny(dbc, problemID)
		if err != nil {
			return fmt.Errorf("fetch problem: %w", err)
		}
		if problem == nil {
			return apperrors.ErrNotFound
		}
		if problem.State() == climbs.StateDraft && problem.CreatorID != rd.UserID {
			return apperrors.ErrNotFound
		}

		if _, err := ss.attemptRepo.Create(dbc, []*types.Attempt{attempt}); err != nil {
			return fmt.Errorf("create attempt: %w", err)
		}

		stats, err := ss.statsRepo.GetByUserID(dbc, rd.UserID)
		if err != nil {
			return fmt.Errorf("fetch statistics: %w", err)
		}
		if stats == nil {
			stats = &types.UserStatistics{UserID: rd.UserID}
		}
		if err := stats.RecordAttempt(g.String(), success); err != nil {
			return err
		}
		if err := ss.statsRepo.Upsert(dbc, stats); err != nil {
			return fmt.Errorf("upsert statistics: %w", err)
		}

		if success {
			if err := ss.problemRepo.IncrementAscentCount(dbc, problemID); err != nil {
				return fmt.Errorf("increment ascent count: %w", err)
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return attempt, nil
}

func (ss *statsService) GetStatistics(ctx context.Context) (*types.UserStatistics, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}
	stats, err := ss.statsRepo.GetByUserID(dbctx.Context{Ctx: ctx}, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("fetch statistics: %w", err)
	}
	if stats == nil {
		// A climber with no attempts has empty statistics, not a 404.
		return &types.UserStatistics{UserID: rd.UserID}, nil
	}
	return stats, nil
}

func (ss *statsService) ListAttempts(ctx context.Context, problemID uuid.UUID) ([]*types.Attempt, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}
	if problemID == uuid.Nil {
		return ss.attemptRepo.ListByUser(dbctx.Context{Ctx: ctx}, rd.UserID)
	}
	return ss.attemptRepo.ListByUserAndProblem(dbctx.Context{Ctx: ctx}, rd.UserID, problemID)
}

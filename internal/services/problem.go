package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/boardside/kilterboard-backend/internal/data/repos"
	types "github.com/boardside/kilterboard-backend/internal/domain"
	"github.com/boardside/kilterboard-backend/internal/domain/board"
	"github.com/boardside/kilterboard-backend/internal/domain/climbs"
	"github.com/boardside/kilterboard-backend/internal/domain/holds"
	"github.com/boardside/kilterboard-backend/internal/pkg/dbctx"
	apperrors "github.com/boardside/kilterboard-backend/internal/pkg/errors"
	"github.com/boardside/kilterboard-backend/internal/platform/ctxutil"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
)

type ProblemService interface {
	// CreateDraft validates the configuration against the board and stores
	// its canonical form. The draft is only visible to its creator.
	CreateDraft(ctx context.Context, boardName string, cfg holds.Configuration) (*types.Problem, error)
	Get(ctx context.Context, problemID uuid.UUID) (*types.Problem, error)
	ListPublished(ctx context.Context, boardName string, limit, offset int) ([]*types.Problem, error)
	ListMine(ctx context.Context) ([]*types.Problem, error)
	// EditHolds replaces the configuration wholesale. A failed validation
	// leaves the stored configuration untouched.
	EditHolds(ctx context.Context, problemID uuid.UUID, cfg holds.Configuration) (*types.Problem, error)
	Publish(ctx context.Context, problemID uuid.UUID, name, grade string, tags []string) (*types.Problem, error)
	Archive(ctx context.Context, problemID uuid.UUID) error
}

type problemService struct {
	db          *gorm.DB
	log         *logger.Logger
	problemRepo repos.ProblemRepo
	boards      *board.Registry
}

func NewProblemService(db *gorm.DB, log *logger.Logger, problemRepo repos.ProblemRepo, boards *board.Registry) ProblemService {
	return &problemService{
		db:          db,
		log:         log.With("service", "ProblemService"),
		problemRepo: problemRepo,
		boards:      boards,
	}
}

func (ps *problemService) CreateDraft(ctx context.Context, boardName string, cfg holds.Configuration) (*types.Problem, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}

	geom, ok := ps.boards.Lookup(boardName)
	if !ok {
		return nil, fmt.Errorf("%w: unknown board %q", apperrors.ErrInvalidArgument, boardName)
	}
	if err := holds.Validate(cfg, geom); err != nil {
		return nil, err
	}
	raw, err := holds.Encode(cfg)
	if err != nil {
		return nil, err
	}

	problem := &types.Problem{
		ID:        uuid.New(),
		CreatorID: rd.UserID,
		BoardName: geom.Name,
		Holds:     datatypes.JSON(raw),
	}

	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ps.problemRepo.Create(dbctx.Context{Ctx: ctx, Tx: tx}, []*types.Problem{problem})
		return err
	}); err != nil {
		return nil, fmt.Errorf("create problem: %w", err)
	}

	ps.log.Info("created draft problem", "problem_id", problem.ID, "board", geom.Name)
	return problem, nil
}

func (ps *problemService) Get(ctx context.Context, problemID uuid.UUID) (*types.Problem, error) {
	// Archived problems stay resolvable by direct id; only listings hide them.
	problem, err := ps.problemRepo.GetByIDAny(dbctx.Context{Ctx: ctx}, problemID)
	if err != nil {
		return nil, fmt.Errorf("fetch problem: %w", err)
	}
	if problem == nil {
		return nil, apperrors.ErrNotFound
	}
	if problem.State() == climbs.StateDraft {
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID != problem.CreatorID {
			// Drafts do not exist for anyone but their creator.
			return nil, apperrors.ErrNotFound
		}
	}
	return problem, nil
}

func (ps *problemService) ListPublished(ctx context.Context, boardName string, limit, offset int) ([]*types.Problem, error) {
	if boardName != "" {
		if _, ok := ps.boards.Lookup(boardName); !ok {
			return nil, fmt.Errorf("%w: unknown board %q", apperrors.ErrInvalidArgument, boardName)
		}
	}
	return ps.problemRepo.ListPublished(dbctx.Context{Ctx: ctx}, boardName, limit, offset)
}

func (ps *problemService) ListMine(ctx context.Context) ([]*types.Problem, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}
	return ps.problemRepo.ListByCreator(dbctx.Context{Ctx: ctx}, rd.UserID)
}

func (ps *problemService) EditHolds(ctx context.Context, problemID uuid.UUID, cfg holds.Configuration) (*types.Problem, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}

	var updated *types.Problem
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		problem, err := ps.problemRepo.GetByID(dbc, problemID)
		if err != nil {
			return fmt.Errorf("fetch problem: %w", err)
		}
		if problem == nil {
			return apperrors.ErrNotFound
		}
		if problem.CreatorID != rd.UserID {
			return apperrors.ErrForbidden
		}

		geom, ok := ps.boards.Lookup(problem.BoardName)
		if !ok {
			return fmt.Errorf("%w: unknown board %q", apperrors.ErrInvalidArgument, problem.BoardName)
		}
		if err := holds.Validate(cfg, geom); err != nil {
			return err
		}
		raw, err := holds.Encode(cfg)
		if err != nil {
			return err
		}

		if err := ps.problemRepo.ReplaceHolds(dbc, problemID, datatypes.JSON(raw)); err != nil {
			return fmt.Errorf("replace holds: %w", err)
		}
		problem.Holds = datatypes.JSON(raw)
		updated = problem
		return nil
	}); err != nil {
		return nil, err
	}
	return updated, nil
}

func (ps *problemService) Publish(ctx context.Context, problemID uuid.UUID, name, grade string, tags []string) (*types.Problem, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apperrors.ErrUnauthorized
	}

	name = trimName(name)
	if name == "" {
		return nil, fmt.Errorf("%w: problem name required", apperrors.ErrInvalidArgument)
	}
	g, err := climbs.ParseGrade(grade)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err)
	}
	if len(tags) == 0 {
		return nil, fmt.Errorf("%w: at least one tag required", apperrors.ErrInvalidArgument)
	}
	for _, tag := range tags {
		if !climbs.ValidTag(tag) {
			return nil, &climbs.TagError{Tag: tag}
		}
	}
	rawTags, err := encodeTags(tags)
	if err != nil {
		return nil, err
	}

	var published *types.Problem
	if err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		problem, err := ps.problemRepo.GetByID(dbc, problemID)
		if err != nil {
			return fmt.Errorf("fetch problem: %w", err)
		}
		if problem == nil {
			return apperrors.ErrNotFound
		}
		if problem.CreatorID != rd.UserID {
			return apperrors.ErrForbidden
		}
		if problem.State() != climbs.StateDraft {
			return &climbs.StateError{From: problem.State(), To: climbs.StatePublished}
		}

		// The stored configuration must still pass validation before it
		// becomes visible to the community.
		geom, ok := ps.boards.Lookup(problem.BoardName)
		if !ok {
			return fmt.Errorf("%w: board %q", apperrors.ErrNotFound, problem.BoardName)
		}
		cfg, err := problem.Configuration()
		if err != nil {
			return fmt.Errorf("decode stored holds: %w", err)
		}
		if err := holds.Validate(cfg, geom); err != nil {
			return err
		}

		if err := ps.problemRepo.Publish(dbc, problemID, name, g.String(), rawTags); err != nil {
			return fmt.Errorf("publish problem: %w", err)
		}
		problem.Name = name
		problem.Grade = g.String()
		problem.Tags = rawTags
		problem.Published = true
		published = problem
		return nil
	}); err != nil {
		return nil, err
	}

	ps.log.Info("published problem", "problem_id", problemID)
	return published, nil
}

func trimName(name string) string {
	return strings.TrimSpace(name)
}

func encodeTags(tags []string) (datatypes.JSON, error) {
	if len(tags) == 0 {
		return datatypes.JSON([]byte("[]")), nil
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("marshal tags: %w", err)
	}
	return datatypes.JSON(raw), nil
}

func (ps *problemService) Archive(ctx context.Context, problemID uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return apperrors.ErrUnauthorized
	}

	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		problem, err := ps.problemRepo.GetByID(dbc, problemID)
		if err != nil {
			return fmt.Errorf("fetch problem: %w", err)
		}
		if problem == nil {
			return apperrors.ErrNotFound
		}
		if problem.CreatorID != rd.UserID {
			return apperrors.ErrForbidden
		}
		if problem.State() != climbs.StatePublished {
			return &climbs.StateError{From: problem.State(), To: climbs.StateArchived}
		}

		if err := ps.problemRepo.Archive(dbc, problemID); err != nil {
			return fmt.Errorf("archive problem: %w", err)
		}
		ps.log.Info("archived problem", "problem_id", problemID)
		return nil
	})
}

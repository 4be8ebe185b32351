package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	redisclient "github.com/boardside/kilterboard-backend/internal/clients/redis"
	"github.com/boardside/kilterboard-backend/internal/data/repos"
	"github.com/boardside/kilterboard-backend/internal/domain/climbs"
	"github.com/boardside/kilterboard-backend/internal/pkg/dbctx"
	apperrors "github.com/boardside/kilterboard-backend/internal/pkg/errors"
	"github.com/boardside/kilterboard-backend/internal/platform/ctxutil"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
	"github.com/boardside/kilterboard-backend/internal/realtime"
)

type WallService interface {
	// Light turns a problem's configuration into an LED frame and pushes
	// it to the board's wall channel. The frame is also returned so the
	// caller can render it without a controller attached.
	Light(ctx context.Context, problemID uuid.UUID) (*realtime.WallFrame, error)
}

type wallService struct {
	log         *logger.Logger
	problemRepo repos.ProblemRepo
	bus         redisclient.WallBus
}

func NewWallService(log *logger.Logger, problemRepo repos.ProblemRepo, bus redisclient.WallBus) WallService {
	return &wallService{
		log:         log.With("service", "WallService"),
		problemRepo: problemRepo,
		bus:         bus,
	}
}

func (ws *wallService) Light(ctx context.Context, problemID uuid.UUID) (*realtime.WallFrame, error) {
	problem, err := ws.problemRepo.GetByID(dbctx.Context{Ctx: ctx}, problemID)
	if err != nil {
		return nil, fmt.Errorf("fetch problem: %w", err)
	}
	if problem == nil {
		return nil, apperrors.ErrNotFound
	}
	if problem.State() == climbs.StateDraft {
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || rd.UserID != problem.CreatorID {
			return nil, apperrors.ErrNotFound
		}
	}

	cfg, err := problem.Configuration()
	if err != nil {
		return nil, fmt.Errorf("decode holds: %w", err)
	}

	frame := &realtime.WallFrame{
		BoardName: problem.BoardName,
		ProblemID: problem.ID,
		Lights:    make([]realtime.Light, 0, cfg.Len()),
	}
	for _, id := range cfg.HoldIDs() {
		frame.Lights = append(frame.Lights, realtime.Light{
			HoldID: id,
			Color:  cfg[id].Color(),
		})
	}

	if err := ws.bus.Publish(ctx, *frame); err != nil {
		ws.log.Warn("wall frame publish failed", "problem_id", problemID, "error", err)
	}
	return frame, nil
}

package climbs

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/boardside/kilterboard-backend/internal/domain"
	"github.com/boardside/kilterboard-backend/internal/pkg/dbctx"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
)

type AttemptRepo interface {
	Create(dbc dbctx.Context, attempts []*types.Attempt) ([]*types.Attempt, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Attempt, error)
	ListByUserAndProblem(dbc dbctx.Context, userID, problemID uuid.UUID) ([]*types.Attempt, error)
}

type attemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	return &attemptRepo{db: db, log: baseLog.With("repo", "AttemptRepo")}
}

func (r *attemptRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *attemptRepo) Create(dbc dbctx.Context, attempts []*types.Attempt) ([]*types.Attempt, error) {
	if len(attempts) == 0 {
		return []*types.Attempt{}, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Create(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (r *attemptRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.Attempt, error) {
	out := []*types.Attempt{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *attemptRepo) ListByUserAndProblem(dbc dbctx.Context, userID, problemID uuid.UUID) ([]*types.Attempt, error) {
	out := []*types.Attempt{}
	if userID == uuid.Nil || problemID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND problem_id = ?", userID, problemID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

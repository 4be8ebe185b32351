package climbs

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/boardside/kilterboard-backend/internal/domain"
	"github.com/boardside/kilterboard-backend/internal/pkg/dbctx"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
)

type ProblemRepo interface {
	Create(dbc dbctx.Context, problems []*types.Problem) ([]*types.Problem, error)
	GetByID(dbc dbctx.Context, problemID uuid.UUID) (*types.Problem, error)
	// GetByIDAny also finds archived problems.
	GetByIDAny(dbc dbctx.Context, problemID uuid.UUID) (*types.Problem, error)
	ListPublished(dbc dbctx.Context, boardName string, limit, offset int) ([]*types.Problem, error)
	ListByCreator(dbc dbctx.Context, creatorID uuid.UUID) ([]*types.Problem, error)
	ReplaceHolds(dbc dbctx.Context, problemID uuid.UUID, holds datatypes.JSON) error
	Publish(dbc dbctx.Context, problemID uuid.UUID, name, grade string, tags datatypes.JSON) error
	Archive(dbc dbctx.Context, problemID uuid.UUID) error
	IncrementAscentCount(dbc dbctx.Context, problemID uuid.UUID) error
}

type problemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProblemRepo(db *gorm.DB, baseLog *logger.Logger) ProblemRepo {
	return &problemRepo{db: db, log: baseLog.With("repo", "ProblemRepo")}
}

func (r *problemRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *problemRepo) Create(dbc dbctx.Context, problems []*types.Problem) ([]*types.Problem, error) {
	if len(problems) == 0 {
		return []*types.Problem{}, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).Create(&problems).Error; err != nil {
		return nil, err
	}
	return problems, nil
}

func (r *problemRepo) GetByID(dbc dbctx.Context, problemID uuid.UUID) (*types.Problem, error) {
	var p types.Problem
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ?", problemID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *problemRepo) GetByIDAny(dbc dbctx.Context, problemID uuid.UUID) (*types.Problem, error) {
	var p types.Problem
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Unscoped().
		Where("id = ?", problemID).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *problemRepo) ListPublished(dbc dbctx.Context, boardName string, limit, offset int) ([]*types.Problem, error) {
	q := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("published = ?", true)
	if boardName != "" {
		q = q.Where("board_name = ?", boardName)
	}
	if limit > 0 {
		q = q.Limit(limit).Offset(offset)
	}
	out := []*types.Problem{}
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *problemRepo) ListByCreator(dbc dbctx.Context, creatorID uuid.UUID) ([]*types.Problem, error) {
	out := []*types.Problem{}
	if creatorID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *problemRepo) ReplaceHolds(dbc dbctx.Context, problemID uuid.UUID, holds datatypes.JSON) error {
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Problem{}).
		Where("id = ?", problemID).
		Updates(map[string]any{
			"holds":      holds,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *problemRepo) Publish(dbc dbctx.Context, problemID uuid.UUID, name, grade string, tags datatypes.JSON) error {
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Problem{}).
		Where("id = ? AND published = ?", problemID, false).
		Updates(map[string]any{
			"name":       name,
			"grade":      grade,
			"tags":       tags,
			"published":  true,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *problemRepo) Archive(dbc dbctx.Context, problemID uuid.UUID) error {
	res := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("id = ?", problemID).
		Delete(&types.Problem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *problemRepo) IncrementAscentCount(dbc dbctx.Context, problemID uuid.UUID) error {
	return r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Problem{}).
		Where("id = ?", problemID).
		UpdateColumn("ascent_count", gorm.Expr("ascent_count + ?", 1)).Error
}

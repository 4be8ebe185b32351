package climbs

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/boardside/kilterboard-backend/internal/domain"
	"github.com/boardside/kilterboard-backend/internal/pkg/dbctx"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
)

type VoteRepo interface {
	// Upsert writes the vote keyed on (user_id, problem_id). A repeat vote
	// from the same user overwrites both axes of the existing row.
	Upsert(dbc dbctx.Context, row *types.Vote) error
	GetByUserAndProblem(dbc dbctx.Context, userID, problemID uuid.UUID) (*types.Vote, error)
	ListByProblem(dbc dbctx.Context, problemID uuid.UUID) ([]*types.Vote, error)
	CountByProblem(dbc dbctx.Context, problemID uuid.UUID) (int64, error)
}

type voteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoteRepo(db *gorm.DB, baseLog *logger.Logger) VoteRepo {
	return &voteRepo{db: db, log: baseLog.With("repo", "VoteRepo")}
}

func (r *voteRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *voteRepo) Upsert(dbc dbctx.Context, row *types.Vote) error {
	if row == nil || row.UserID == uuid.Nil || row.ProblemID == uuid.Nil {
		return nil
	}
	now := time.Now().UTC()
	row.UpdatedAt = now
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	return r.dbx(dbc).WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"},
				{Name: "problem_id"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"star_rating", "difficulty_grade", "updated_at",
			}),
		}).
		Create(row).Error
}

func (r *voteRepo) GetByUserAndProblem(dbc dbctx.Context, userID, problemID uuid.UUID) (*types.Vote, error) {
	var v types.Vote
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ? AND problem_id = ?", userID, problemID).
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *voteRepo) ListByProblem(dbc dbctx.Context, problemID uuid.UUID) ([]*types.Vote, error) {
	out := []*types.Vote{}
	if problemID == uuid.Nil {
		return out, nil
	}
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("problem_id = ?", problemID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *voteRepo) CountByProblem(dbc dbctx.Context, problemID uuid.UUID) (int64, error) {
	var count int64
	if err := r.dbx(dbc).WithContext(dbc.Ctx).
		Model(&types.Vote{}).
		Where("problem_id = ?", problemID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

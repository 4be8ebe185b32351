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

type StatisticsRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserStatistics, error)
	Upsert(dbc dbctx.Context, row *types.UserStatistics) error
}

type statisticsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStatisticsRepo(db *gorm.DB, baseLog *logger.Logger) StatisticsRepo {
	return &statisticsRepo{db: db, log: baseLog.With("repo", "StatisticsRepo")}
}

func (r *statisticsRepo) dbx(dbc dbctx.Context) *gorm.DB {
	if dbc.Tx != nil {
		return dbc.Tx
	}
	return r.db
}

func (r *statisticsRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserStatistics, error) {
	var s types.UserStatistics
	err := r.dbx(dbc).WithContext(dbc.Ctx).
		Where("user_id = ?", userID).
		First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *statisticsRepo) Upsert(dbc dbctx.Context, row *types.UserStatistics) error {
	if row == nil || row.UserID == uuid.Nil {
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
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_attempts", "total_ascents", "personal_best_grade",
				"grade_distribution", "updated_at",
			}),
		}).
		Create(row).Error
}

package repos

import (
	"gorm.io/gorm"

	"github.com/boardside/kilterboard-backend/internal/data/repos/auth"
	"github.com/boardside/kilterboard-backend/internal/data/repos/climbs"
	"github.com/boardside/kilterboard-backend/internal/data/repos/user"
	"github.com/boardside/kilterboard-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type UserTokenRepo = auth.UserTokenRepo

type ProblemRepo = climbs.ProblemRepo
type VoteRepo = climbs.VoteRepo
type AttemptRepo = climbs.AttemptRepo
type StatisticsRepo = climbs.StatisticsRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return auth.NewUserTokenRepo(db, baseLog)
}

func NewProblemRepo(db *gorm.DB, baseLog *logger.Logger) ProblemRepo {
	return climbs.NewProblemRepo(db, baseLog)
}
func NewVoteRepo(db *gorm.DB, baseLog *logger.Logger) VoteRepo {
	return climbs.NewVoteRepo(db, baseLog)
}
func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	return climbs.NewAttemptRepo(db, baseLog)
}
func NewStatisticsRepo(db *gorm.DB, baseLog *logger.Logger) StatisticsRepo {
	return climbs.NewStatisticsRepo(db, baseLog)
}

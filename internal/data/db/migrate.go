package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/boardside/kilterboard-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Identity + auth
		// =========================
		&types.User{},
		&types.UserToken{},

		// =========================
		// Climbing
		// =========================
		&types.Problem{},
		&types.Vote{},
		&types.Attempt{},
		&types.UserStatistics{},
	)
}

func EnsureClimbIndexes(db *gorm.DB) error {
	// Aggregation reads every vote for a problem.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_vote_problem_id ON vote(problem_id);`).Error; err != nil {
		return fmt.Errorf("create idx_vote_problem_id: %w", err)
	}
	// Wall browsing lists published, non-archived problems per board.
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_boulder_problem_board_published
		ON boulder_problem(board_name, published)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_boulder_problem_board_published: %w", err)
	}
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_attempt_user_problem ON attempt(user_id, problem_id);`).Error; err != nil {
		return fmt.Errorf("create idx_attempt_user_problem: %w", err)
	}
	return nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	if err := EnsureClimbIndexes(s.db); err != nil {
		s.log.Error("Climb index migration failed", "error", err)
		return err
	}
	return nil
}

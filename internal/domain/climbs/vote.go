package climbs

import (
	"time"

	"github.com/google/uuid"

	"github.com/boardside/kilterboard-backend/internal/domain/user"
)

const (
	MinStarRating = 1
	MaxStarRating = 4
)

// Vote is one user's opinion of one problem along two independent axes.
// The (user_id, problem_id) pair is unique: resubmission overwrites both
// axes in place, it never creates a second row.
type Vote struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_vote_user_problem,unique" json:"user_id"`
	User            *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ProblemID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_vote_user_problem,unique" json:"problem_id"`
	Problem         *Problem   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProblemID;references:ID" json:"problem,omitempty"`
	StarRating      int        `gorm:"column:star_rating;not null" json:"star_rating"`
	DifficultyGrade string     `gorm:"column:difficulty_grade;not null" json:"difficulty_grade"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

func (Vote) TableName() string { return "vote" }

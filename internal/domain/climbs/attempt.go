package climbs

import (
	"time"

	"github.com/google/uuid"

	"github.com/boardside/kilterboard-backend/internal/domain/user"
)

// Attempt records one try on a problem. Attempts are append-only history;
// configuration edits and archival never touch them.
type Attempt struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ProblemID uuid.UUID  `gorm:"type:uuid;not null;index" json:"problem_id"`
	Problem   *Problem   `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProblemID;references:ID" json:"problem,omitempty"`
	Grade     string     `gorm:"column:grade;not null" json:"grade"`
	Success   bool       `gorm:"column:success;not null" json:"success"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
}

func (Attempt) TableName() string { return "attempt" }

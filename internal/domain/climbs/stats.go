package climbs

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/boardside/kilterboard-backend/internal/domain/user"
)

// UserStatistics tracks a climber's history across all problems: attempt and
// ascent counters, the hardest grade sent, and attempts per grade.
type UserStatistics struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User              *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	TotalAttempts     int            `gorm:"column:total_attempts;not null;default:0" json:"total_attempts"`
	TotalAscents      int            `gorm:"column:total_ascents;not null;default:0" json:"total_ascents"`
	PersonalBestGrade string         `gorm:"column:personal_best_grade" json:"personal_best_grade"`
	GradeDistribution datatypes.JSON `gorm:"type:jsonb;column:grade_distribution" json:"grade_distribution"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null" json:"updated_at"`
}

func (UserStatistics) TableName() string { return "user_statistics" }

// Distribution unmarshals the per-grade attempt counts.
func (s *UserStatistics) Distribution() map[string]int {
	out := map[string]int{}
	if len(s.GradeDistribution) == 0 {
		return out
	}
	if err := json.Unmarshal(s.GradeDistribution, &out); err != nil {
		return map[string]int{}
	}
	return out
}

// RecordAttempt folds one attempt into the statistics. The personal best
// only moves on successful ascents and never decreases.
func (s *UserStatistics) RecordAttempt(grade string, success bool) error {
	g, err := ParseGrade(grade)
	if err != nil {
		return err
	}

	s.TotalAttempts++
	if success {
		s.TotalAscents++
		if s.PersonalBestGrade == "" {
			s.PersonalBestGrade = g.String()
		} else if best, err := ParseGrade(s.PersonalBestGrade); err != nil || g > best {
			s.PersonalBestGrade = g.String()
		}
	}

	dist := s.Distribution()
	dist[g.String()]++
	raw, err := json.Marshal(dist)
	if err != nil {
		return fmt.Errorf("marshal grade distribution: %w", err)
	}
	s.GradeDistribution = datatypes.JSON(raw)
	return nil
}

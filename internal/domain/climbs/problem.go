package climbs

import (
	"encoding/json"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/boardside/kilterboard-backend/internal/domain/holds"
	"github.com/boardside/kilterboard-backend/internal/domain/user"
)

// Problem owns exactly one hold configuration; the configuration has no
// identity outside its problem. The holds column stores the canonical
// serialized form and is only ever replaced wholesale, never patched.
type Problem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator     *user.User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:CreatorID;references:ID" json:"creator,omitempty"`
	BoardName   string         `gorm:"column:board_name;not null" json:"board_name"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Grade       string         `gorm:"column:grade;not null" json:"grade"`
	Holds       datatypes.JSON `gorm:"type:jsonb;column:holds;not null" json:"holds"`
	Tags        datatypes.JSON `gorm:"type:jsonb;column:tags" json:"tags"`
	AscentCount int            `gorm:"column:ascent_count;not null;default:0" json:"ascent_count"`
	Published   bool           `gorm:"column:published;not null;default:false" json:"published"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Problem) TableName() string { return "boulder_problem" }

func (p *Problem) State() State {
	switch {
	case p.DeletedAt.Valid:
		return StateArchived
	case p.Published:
		return StatePublished
	default:
		return StateDraft
	}
}

// Configuration decodes the stored canonical form.
func (p *Problem) Configuration() (holds.Configuration, error) {
	return holds.Decode(p.Holds)
}

// TagList unmarshals the stored tag set; a missing column is an empty set.
func (p *Problem) TagList() []string {
	if len(p.Tags) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(p.Tags, &tags); err != nil {
		return nil
	}
	return tags
}

var tagPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidTag reports whether a tag matches the accepted format.
func ValidTag(tag string) bool {
	return tagPattern.MatchString(tag)
}

package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Email       string         `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Username    string         `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Password    string         `gorm:"not null;column:password" json:"-"`
	AvatarColor string         `gorm:"column:avatar_color" json:"avatar_color"`
	AvatarPath  string         `gorm:"column:avatar_path" json:"avatar_path"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }

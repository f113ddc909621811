package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 定义了用户模型，Email 为与身份提供方对接的关联键。
type User struct {
	ID           string `gorm:"type:varchar(36);primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	Name         string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

// BeforeCreate 在插入前补齐 UUID 主键。
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

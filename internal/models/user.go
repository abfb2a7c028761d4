package models

import (
	"time"

	"gorm.io/gorm"
)

// User is an account row. Phone and Address are nullable so that "never
// set" is distinguishable from "set to empty".
type User struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Email           string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string         `gorm:"not null" json:"-"`
	DisplayName     string         `gorm:"default:''" json:"display_name"`
	Phone           *string        `gorm:"type:varchar(32)" json:"phone,omitempty"`
	Address         *string        `gorm:"type:varchar(500)" json:"address,omitempty"`
	Status          string         `gorm:"default:'active'" json:"status"`
	TokenVersion    uint64         `gorm:"not null;default:0" json:"-"` // bumped on logout to revoke tokens
	EmailVerifiedAt *time.Time     `json:"email_verified_at"`
	LastLoginAt     *time.Time     `json:"last_login_at"`
	CreatedAt       time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}

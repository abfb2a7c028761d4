package models

import (
	"time"

	"gorm.io/gorm"
)

// EmailVerifyToken is a single-use email verification token.
type EmailVerifyToken struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Email      string         `gorm:"index;not null" json:"email"`
	UserID     *uint          `gorm:"index" json:"user_id"`
	Purpose    string         `gorm:"index;not null" json:"purpose"`
	Token      string         `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt  time.Time      `gorm:"index" json:"expires_at"`
	VerifiedAt *time.Time     `gorm:"index" json:"verified_at"`
	SentAt     time.Time      `gorm:"index" json:"sent_at"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (EmailVerifyToken) TableName() string {
	return "email_verify_tokens"
}

package models

import (
	"time"
)

// StoreRecord is a per-user serialized blob under a fixed key ("user",
// "cart", "orders"). Absence of a row means no data has been written yet.
type StoreRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_store_user_key" json:"user_id"`
	Key       string    `gorm:"type:varchar(32);not null;uniqueIndex:idx_store_user_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `gorm:"index" json:"updated_at"`
}

// TableName sets the table name.
func (StoreRecord) TableName() string {
	return "store_records"
}

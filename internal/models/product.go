package models

import (
	"time"

	"gorm.io/gorm"
)

// Product is a catalog entry. The catalog is seeded at startup and never
// mutated by request handlers.
type Product struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Price     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // unit price in INR
	Image     string         `gorm:"type:varchar(255)" json:"image"`
	IsActive  bool           `gorm:"default:true;index" json:"is_active"`
	SortOrder int            `gorm:"default:0;index" json:"sort_order"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Product) TableName() string {
	return "products"
}

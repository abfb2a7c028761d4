package models

import (
	"time"

	"gorm.io/gorm"
)

// Order is an order snapshot created when checkout reaches the verified
// stage. Order numbers look like ORD-<unix-timestamp>.
type Order struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	OrderNo     string         `gorm:"uniqueIndex;not null" json:"order_no"`
	UserID      uint           `gorm:"index;not null" json:"user_id"`
	Status      string         `gorm:"index;not null" json:"status"`
	Currency    string         `gorm:"not null" json:"currency"`
	TotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`
	Phone       string         `gorm:"type:varchar(32)" json:"phone"`
	Address     string         `gorm:"type:varchar(500)" json:"address"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// TableName sets the table name.
func (Order) TableName() string {
	return "orders"
}

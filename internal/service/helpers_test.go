package service

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/quickkart/quickkart/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var testDBSeq uint64

// openTestDB opens a fresh in-memory database with all tables migrated.
// Each call gets its own named memory DB so tests cannot bleed state.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", atomic.AddUint64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.EmailVerifyToken{},
		&models.Product{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.StoreRecord{},
	); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, priceINR int64, active bool) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Price:    models.NewMoneyFromDecimal(decimal.NewFromInt(priceINR)),
		Image:    "https://example.com/" + name + ".jpg",
		IsActive: active,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	if !active {
		// IsActive carries gorm:"default:true", so Create drops the zero
		// value and the row lands active; force the flag explicitly.
		if err := db.Model(product).Update("is_active", false).Error; err != nil {
			t.Fatalf("deactivate product failed: %v", err)
		}
	}
	return product
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  "Tester",
		Status:       "active",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

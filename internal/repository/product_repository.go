package repository

import (
	"errors"

	"github.com/quickkart/quickkart/internal/models"

	"gorm.io/gorm"
)

// ProductRepository reads the static catalog.
type ProductRepository interface {
	ListActive() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
}

// GormProductRepository is the GORM implementation.
type GormProductRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a product repository.
func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// ListActive lists active catalog products in display order.
func (r *GormProductRepository) ListActive() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Where("is_active = ?", true).
		Order("sort_order asc, id asc").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns a product, nil when absent.
func (r *GormProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

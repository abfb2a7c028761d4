package service

import (
	"github.com/quickkart/quickkart/internal/models"
	"github.com/quickkart/quickkart/internal/repository"
)

// CatalogService reads the static product catalog.
type CatalogService struct {
	productRepo repository.ProductRepository
}

// NewCatalogService creates a catalog service.
func NewCatalogService(productRepo repository.ProductRepository) *CatalogService {
	return &CatalogService{productRepo: productRepo}
}

// List returns the active catalog in display order.
func (s *CatalogService) List() ([]models.Product, error) {
	return s.productRepo.ListActive()
}

// Get returns one product.
func (s *CatalogService) Get(id uint) (*models.Product, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrNotFound
	}
	return product, nil
}

package service

import (
	"github.com/quickkart/quickkart/internal/models"
	"github.com/quickkart/quickkart/internal/repository"
)

// OrderService reads order history. Orders are only created by checkout.
type OrderService struct {
	orderRepo repository.OrderRepository
}

// NewOrderService creates an order service.
func NewOrderService(orderRepo repository.OrderRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo}
}

// ListByUser returns the user's history, most recent first.
func (s *OrderService) ListByUser(userID uint) ([]models.Order, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	return s.orderRepo.ListByUser(userID)
}

// GetByOrderNo returns one order with its items.
func (s *OrderService) GetByOrderNo(userID uint, orderNo string) (*models.Order, error) {
	if userID == 0 || orderNo == "" {
		return nil, ErrNotFound
	}
	order, err := s.orderRepo.GetByOrderNo(userID, orderNo)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrNotFound
	}
	return order, nil
}

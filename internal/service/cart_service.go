package service

import (
	"time"

	"github.com/quickkart/quickkart/internal/models"
	"github.com/quickkart/quickkart/internal/repository"

	"github.com/shopspring/decimal"
)

// CartItemDetail is one cart row for responses.
type CartItemDetail struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice models.Money    `json:"unit_price"`
	LineTotal models.Money    `json:"line_total"`
	Product   *models.Product `json:"product"`
}

// CartSummary is the full cart with its derived totals.
type CartSummary struct {
	Items      []CartItemDetail `json:"items"`
	TotalItems int              `json:"total_items"`
	TotalPrice models.Money     `json:"total_price"`
}

// CartService owns the cart ledger. Every mutation re-mirrors the full
// ledger to the blob store.
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	mirror      *MirrorStore
}

// NewCartService creates a cart service.
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository, mirror *MirrorStore) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		mirror:      mirror,
	}
}

// Summary returns the cart with totals. Rows whose product went inactive
// are dropped on read.
func (s *CartService) Summary(userID uint) (*CartSummary, error) {
	if userID == 0 {
		return nil, ErrInvalidCartItem
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	details := make([]CartItemDetail, 0, len(items))
	totalItems := 0
	totalPrice := decimal.Zero
	for _, item := range items {
		product := item.Product
		if product == nil || product.ID == 0 {
			p, err := s.productRepo.GetByID(item.ProductID)
			if err != nil {
				return nil, err
			}
			product = p
		}
		if product == nil || !product.IsActive {
			_ = s.cartRepo.DeleteByUserAndProduct(userID, item.ProductID)
			continue
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		details = append(details, CartItemDetail{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			LineTotal: models.NewMoneyFromDecimal(lineTotal),
			Product:   product,
		})
		totalItems += item.Quantity
		totalPrice = totalPrice.Add(lineTotal)
	}

	return &CartSummary{
		Items:      details,
		TotalItems: totalItems,
		TotalPrice: models.NewMoneyFromDecimal(totalPrice),
	}, nil
}

// AddItem inserts a row with quantity 1 or increments an existing row.
func (s *CartService) AddItem(userID, productID uint) error {
	if userID == 0 || productID == 0 {
		return ErrInvalidCartItem
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return ErrProductNotAvailable
	}

	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return err
	}

	quantity := 1
	if existing != nil {
		quantity = existing.Quantity + 1
	}

	now := time.Now()
	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.cartRepo.Upsert(item); err != nil {
		return err
	}
	return s.remirror(userID)
}

// SetQuantity sets a row's quantity. Zero or negative removes the row.
func (s *CartService) SetQuantity(userID, productID uint, quantity int) error {
	if userID == 0 || productID == 0 {
		return ErrInvalidCartItem
	}
	if quantity <= 0 {
		return s.RemoveItem(userID, productID)
	}

	existing, err := s.cartRepo.GetByUserAndProduct(userID, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrNotFound
	}

	now := time.Now()
	item := &models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: existing.CreatedAt,
		UpdatedAt: now,
	}
	if err := s.cartRepo.Upsert(item); err != nil {
		return err
	}
	return s.remirror(userID)
}

// RemoveItem deletes a row, no-op when absent.
func (s *CartService) RemoveItem(userID, productID uint) error {
	if userID == 0 || productID == 0 {
		return ErrInvalidCartItem
	}
	if err := s.cartRepo.DeleteByUserAndProduct(userID, productID); err != nil {
		return err
	}
	return s.remirror(userID)
}

// Clear empties the ledger. Checkout completion is the only caller.
func (s *CartService) Clear(userID uint) error {
	if userID == 0 {
		return ErrInvalidCartItem
	}
	if err := s.cartRepo.ClearByUser(userID); err != nil {
		return err
	}
	return s.remirror(userID)
}

func (s *CartService) remirror(userID uint) error {
	if s.mirror == nil {
		return nil
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return err
	}
	return s.mirror.SaveCart(userID, items)
}

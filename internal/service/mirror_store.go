package service

import (
	"encoding/json"

	"github.com/quickkart/quickkart/internal/constants"
	"github.com/quickkart/quickkart/internal/models"
	"github.com/quickkart/quickkart/internal/repository"

	"gorm.io/gorm"
)

// StoredUser is the serialized session snapshot.
type StoredUser struct {
	ID      uint    `json:"id"`
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// StoredCartLine is one serialized cart row.
type StoredCartLine struct {
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	Price     models.Money `json:"price"`
	Image     string       `json:"image"`
	Quantity  int          `json:"quantity"`
}

// StoredOrderLine is one serialized order item.
type StoredOrderLine struct {
	ProductID uint         `json:"product_id"`
	Name      string       `json:"name"`
	Price     models.Money `json:"price"`
	Quantity  int          `json:"quantity"`
}

// StoredOrder is one serialized history entry.
type StoredOrder struct {
	OrderNo string            `json:"order_no"`
	Date    string            `json:"date"`
	Items   []StoredOrderLine `json:"items"`
	Total   models.Money      `json:"total"`
	Status  string            `json:"status"`
}

// MirrorStore writes full-state snapshots to the blob store after every
// mutation. Reads fall back to empty when no blob exists.
type MirrorStore struct {
	storeRepo repository.StoreRecordRepository
}

// NewMirrorStore creates a mirror store.
func NewMirrorStore(storeRepo repository.StoreRecordRepository) *MirrorStore {
	return &MirrorStore{storeRepo: storeRepo}
}

// WithTx binds a transaction.
func (m *MirrorStore) WithTx(tx *gorm.DB) *MirrorStore {
	if tx == nil {
		return m
	}
	return &MirrorStore{storeRepo: m.storeRepo.WithTx(tx)}
}

// SaveUser mirrors the session snapshot.
func (m *MirrorStore) SaveUser(user *models.User) error {
	if user == nil || user.ID == 0 {
		return nil
	}
	snapshot := StoredUser{
		ID:      user.ID,
		Email:   user.Email,
		Name:    user.DisplayName,
		Phone:   user.Phone,
		Address: user.Address,
	}
	return m.set(user.ID, constants.StoreKeyUser, snapshot)
}

// ClearUser removes the session snapshot.
func (m *MirrorStore) ClearUser(userID uint) error {
	if userID == 0 {
		return nil
	}
	return m.storeRepo.Delete(userID, constants.StoreKeyUser)
}

// SaveCart mirrors the full cart ledger.
func (m *MirrorStore) SaveCart(userID uint, items []models.CartItem) error {
	if userID == 0 {
		return nil
	}
	lines := make([]StoredCartLine, 0, len(items))
	for _, item := range items {
		line := StoredCartLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			line.Name = item.Product.Name
			line.Price = item.Product.Price
			line.Image = item.Product.Image
		}
		lines = append(lines, line)
	}
	return m.set(userID, constants.StoreKeyCart, lines)
}

// SaveOrders mirrors the full order history, most recent first.
func (m *MirrorStore) SaveOrders(userID uint, orders []models.Order) error {
	if userID == 0 {
		return nil
	}
	snapshots := make([]StoredOrder, 0, len(orders))
	for _, order := range orders {
		lines := make([]StoredOrderLine, 0, len(order.Items))
		for _, item := range order.Items {
			lines = append(lines, StoredOrderLine{
				ProductID: item.ProductID,
				Name:      item.Name,
				Price:     item.UnitPrice,
				Quantity:  item.Quantity,
			})
		}
		snapshots = append(snapshots, StoredOrder{
			OrderNo: order.OrderNo,
			Date:    order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Items:   lines,
			Total:   order.TotalAmount,
			Status:  order.Status,
		})
	}
	return m.set(userID, constants.StoreKeyOrders, snapshots)
}

// LoadOrders reads the mirrored history, empty when no blob exists.
func (m *MirrorStore) LoadOrders(userID uint) ([]StoredOrder, error) {
	record, err := m.storeRepo.Get(userID, constants.StoreKeyOrders)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return []StoredOrder{}, nil
	}
	var snapshots []StoredOrder
	if err := json.Unmarshal([]byte(record.Value), &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

func (m *MirrorStore) set(userID uint, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return m.storeRepo.Set(userID, key, string(payload))
}

package public

import (
	"errors"
	"time"

	"github.com/quickkart/quickkart/internal/currency"
	"github.com/quickkart/quickkart/internal/http/response"
	"github.com/quickkart/quickkart/internal/models"
	"github.com/quickkart/quickkart/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderItemResponse is a price snapshot line.
type OrderItemResponse struct {
	ProductID  uint         `json:"product_id"`
	Name       string       `json:"name"`
	Image      string       `json:"image"`
	UnitPrice  models.Money `json:"unit_price"`
	Quantity   int          `json:"quantity"`
	TotalPrice models.Money `json:"total_price"`
}

// OrderResponse is one order with its items.
type OrderResponse struct {
	ID           uint                `json:"id"`
	OrderNo      string              `json:"order_no"`
	Status       string              `json:"status"`
	Currency     string              `json:"currency"`
	TotalAmount  models.Money        `json:"total_amount"`
	TotalDisplay string              `json:"total_display"`
	Phone        string              `json:"phone"`
	Address      string              `json:"address"`
	Items        []OrderItemResponse `json:"items"`
	CreatedAt    time.Time           `json:"created_at"`
}

func buildOrderResponse(order *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID:  item.ProductID,
			Name:       item.Name,
			Image:      item.Image,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice,
		})
	}
	return OrderResponse{
		ID:           order.ID,
		OrderNo:      order.OrderNo,
		Status:       order.Status,
		Currency:     order.Currency,
		TotalAmount:  order.TotalAmount,
		TotalDisplay: currency.FormatINR(order.TotalAmount.Decimal),
		Phone:        order.Phone,
		Address:      order.Address,
		Items:        items,
		CreatedAt:    order.CreatedAt,
	}
}

// ListOrders returns the user's order history, most recent first.
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	orders, err := h.OrderService.ListByUser(uid)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load orders", err)
		return
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, buildOrderResponse(&orders[i]))
	}
	response.Success(c, gin.H{"items": items})
}

// GetOrderByOrderNo returns one order by its public number.
func (h *Handler) GetOrderByOrderNo(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}

	order, err := h.OrderService.GetByOrderNo(uid, c.Param("order_no"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "order not found", nil)
		default:
			respondError(c, response.CodeInternal, "failed to load order", err)
		}
		return
	}
	response.Success(c, buildOrderResponse(order))
}

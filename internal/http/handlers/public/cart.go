package public

import (
	"errors"

	"github.com/quickkart/quickkart/internal/currency"
	"github.com/quickkart/quickkart/internal/http/response"
	"github.com/quickkart/quickkart/internal/models"
	"github.com/quickkart/quickkart/internal/service"

	"github.com/gin-gonic/gin"
)

// AddCartItemRequest adds one unit of a product.
type AddCartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// SetCartQuantityRequest sets an absolute quantity.
type SetCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartItemResponse is one cart row.
type CartItemResponse struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice models.Money    `json:"unit_price"`
	LineTotal models.Money    `json:"line_total"`
	Product   ProductResponse `json:"product"`
}

// CartResponse is the full cart with derived totals.
type CartResponse struct {
	Items        []CartItemResponse `json:"items"`
	TotalItems   int                `json:"total_items"`
	TotalPrice   models.Money       `json:"total_price"`
	TotalDisplay string             `json:"total_display"`
}

func buildCartResponse(summary *service.CartSummary) CartResponse {
	items := make([]CartItemResponse, 0, len(summary.Items))
	for _, item := range summary.Items {
		items = append(items, CartItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
			Product:   buildProductResponse(item.Product),
		})
	}
	return CartResponse{
		Items:        items,
		TotalItems:   summary.TotalItems,
		TotalPrice:   summary.TotalPrice,
		TotalDisplay: currency.FormatINR(summary.TotalPrice.Decimal),
	}
}

func (h *Handler) respondCart(c *gin.Context, userID uint) {
	summary, err := h.CartService.Summary(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load cart", err)
		return
	}
	response.Success(c, buildCartResponse(summary))
}

// GetCart returns the cart with totals.
func (h *Handler) GetCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	h.respondCart(c, uid)
}

// AddCartItem adds one unit of a product to the cart.
func (h *Handler) AddCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.CartService.AddItem(uid, req.ProductID); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCartItem):
			respondError(c, response.CodeBadRequest, "invalid cart item", nil)
		case errors.Is(err, service.ErrProductNotAvailable):
			respondError(c, response.CodeBadRequest, "product not available", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update cart", err)
		}
		return
	}
	h.respondCart(c, uid)
}

// SetCartItemQuantity sets the quantity of a cart row. Zero removes it.
func (h *Handler) SetCartItemQuantity(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}
	var req SetCartQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if err := h.CartService.SetQuantity(uid, productID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCartItem):
			respondError(c, response.CodeBadRequest, "invalid cart item", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "item not in cart", nil)
		default:
			respondError(c, response.CodeInternal, "failed to update cart", err)
		}
		return
	}
	h.respondCart(c, uid)
}

// RemoveCartItem removes one product from the cart.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	productID, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}

	if err := h.CartService.RemoveItem(uid, productID); err != nil {
		respondError(c, response.CodeInternal, "failed to update cart", err)
		return
	}
	h.respondCart(c, uid)
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CartService.Clear(uid); err != nil {
		respondError(c, response.CodeInternal, "failed to update cart", err)
		return
	}
	h.respondCart(c, uid)
}

package public

import (
	"errors"

	"github.com/quickkart/quickkart/internal/currency"
	"github.com/quickkart/quickkart/internal/http/response"
	"github.com/quickkart/quickkart/internal/models"
	"github.com/quickkart/quickkart/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductResponse is a catalog entry with its display price.
type ProductResponse struct {
	ID           uint         `json:"id"`
	Name         string       `json:"name"`
	Price        models.Money `json:"price"`
	PriceDisplay string       `json:"price_display"`
	Image        string       `json:"image"`
}

func buildProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		PriceDisplay: currency.FormatINR(p.Price.Decimal),
		Image:        p.Image,
	}
}

// ListProducts returns the active catalog.
func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.CatalogService.List()
	if err != nil {
		respondError(c, response.CodeInternal, "failed to load products", err)
		return
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, buildProductResponse(&products[i]))
	}
	response.Success(c, gin.H{"items": items})
}

// GetProduct returns one product.
func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}

	product, err := h.CatalogService.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "product not found", nil)
		default:
			respondError(c, response.CodeInternal, "failed to load product", err)
		}
		return
	}
	response.Success(c, buildProductResponse(product))
}

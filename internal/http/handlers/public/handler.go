package public

import "github.com/quickkart/quickkart/internal/provider"

// Handler serves the storefront API.
type Handler struct {
	*provider.Container
}

// NewHandler creates the storefront handler.
func NewHandler(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

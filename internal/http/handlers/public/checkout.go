package public

import (
	"errors"

	"github.com/quickkart/quickkart/internal/currency"
	"github.com/quickkart/quickkart/internal/http/response"
	"github.com/quickkart/quickkart/internal/service"

	"github.com/gin-gonic/gin"
)

// CheckoutStatusResponse reports the session state to the client.
type CheckoutStatusResponse struct {
	State        string `json:"state"`
	Total        string `json:"total"`
	TotalDisplay string `json:"total_display"`
	QRImage      string `json:"qr_image,omitempty"`
	OrderNo      string `json:"order_no,omitempty"`
	NavigateOut  bool   `json:"navigate_out"`
}

func buildCheckoutStatusResponse(status *service.CheckoutStatus) CheckoutStatusResponse {
	return CheckoutStatusResponse{
		State:        status.State,
		Total:        status.Total.String(),
		TotalDisplay: currency.FormatINR(status.Total.Decimal),
		QRImage:      status.QRImage,
		OrderNo:      status.OrderNo,
		NavigateOut:  status.NavigateOut,
	}
}

func respondCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCartEmpty):
		respondError(c, response.CodeBadRequest, "cart is empty", nil)
	case errors.Is(err, service.ErrContactInfoRequired):
		respondError(c, response.CodeBadRequest, "phone and address are required", nil)
	case errors.Is(err, service.ErrProductNotAvailable):
		respondError(c, response.CodeBadRequest, "product not available", nil)
	case errors.Is(err, service.ErrCheckoutNotFound):
		respondError(c, response.CodeNotFound, "no checkout in progress", nil)
	case errors.Is(err, service.ErrCheckoutStateInvalid):
		respondError(c, response.CodeConflict, "checkout already past this step", nil)
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "no checkout in progress", nil)
	default:
		respondError(c, response.CodeInternal, "checkout failed", err)
	}
}

// BeginCheckout opens a checkout session for the current cart.
func (h *Handler) BeginCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	status, err := h.CheckoutService.Begin(uid)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, buildCheckoutStatusResponse(status))
}

// CheckoutContactRequest carries the delivery contact fields.
type CheckoutContactRequest struct {
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// SubmitCheckoutContact submits the contact details and moves the
// session to the QR stage. Later stages advance on server timers.
func (h *Handler) SubmitCheckoutContact(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req CheckoutContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	status, err := h.CheckoutService.SubmitInfo(uid, req.Phone, req.Address)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, buildCheckoutStatusResponse(status))
}

// GetCheckoutStatus reports the current session state for polling.
func (h *Handler) GetCheckoutStatus(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	status, err := h.CheckoutService.Status(uid)
	if err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, buildCheckoutStatusResponse(status))
}

// AbortCheckout cancels the session. No-op when none is in progress.
func (h *Handler) AbortCheckout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.CheckoutService.Abort(uid); err != nil {
		respondCheckoutError(c, err)
		return
	}
	response.Success(c, gin.H{"aborted": true})
}

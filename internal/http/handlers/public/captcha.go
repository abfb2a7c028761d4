package public

import (
	"errors"

	"github.com/quickkart/quickkart/internal/http/response"
	"github.com/quickkart/quickkart/internal/service"

	"github.com/gin-gonic/gin"
)

// GetImageCaptcha generates an image challenge.
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil {
		respondError(c, response.CodeInternal, "captcha unavailable", service.ErrCaptchaConfigInvalid)
		return
	}

	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCaptchaConfigInvalid):
			respondError(c, response.CodeBadRequest, "captcha unavailable", nil)
		default:
			respondError(c, response.CodeInternal, "failed to generate captcha", err)
		}
		return
	}

	response.Success(c, gin.H{
		"captcha_id":   challenge.CaptchaID,
		"image_base64": challenge.ImageBase64,
	})
}

package public

import (
	"errors"
	"net/http"
	"time"

	"github.com/quickkart/quickkart/internal/constants"
	"github.com/quickkart/quickkart/internal/http/response"
	"github.com/quickkart/quickkart/internal/models"
	"github.com/quickkart/quickkart/internal/service"

	"github.com/gin-gonic/gin"
)

// UserResponse is the account shape returned to the client.
type UserResponse struct {
	ID              uint       `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Phone           *string    `json:"phone"`
	Address         *string    `json:"address"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
}

func buildUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Name:            user.DisplayName,
		Phone:           user.Phone,
		Address:         user.Address,
		EmailVerifiedAt: user.EmailVerifiedAt,
	}
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// Register creates an unverified account and sends the verification link.
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.UserAuthService.Register(req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "invalid email address", nil)
		case errors.Is(err, service.ErrEmailExists):
			respondError(c, response.CodeConflict, "email already registered", nil)
		case errors.Is(err, service.ErrWeakPassword):
			respondError(c, response.CodeBadRequest, err.Error(), nil)
		default:
			respondError(c, response.CodeInternal, "registration failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"user":              buildUserResponse(user),
		"verification_sent": true,
	})
}

// LoginRequest opens a session.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// Login authenticates and returns a session token.
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "invalid email address", nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, response.CodeUnauthorized, "invalid email or password", nil)
		case errors.Is(err, service.ErrUserDisabled):
			respondError(c, response.CodeForbidden, "account disabled", nil)
		case errors.Is(err, service.ErrEmailNotVerified):
			respondError(c, response.CodeForbidden, "email not verified", nil)
		default:
			respondError(c, response.CodeInternal, "login failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"user":       buildUserResponse(user),
		"token":      token,
		"expires_at": expiresAt,
	})
}

// Logout revokes all outstanding session tokens.
func (h *Handler) Logout(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	if err := h.UserAuthService.Logout(uid); err != nil {
		respondError(c, response.CodeInternal, "logout failed", err)
		return
	}
	response.Success(c, gin.H{"logged_out": true})
}

// GetCurrentUser returns the signed-in account.
func (h *Handler) GetCurrentUser(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.GetUserByID(uid)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "user not found", nil)
		default:
			respondError(c, response.CodeInternal, "failed to load user", err)
		}
		return
	}
	response.Success(c, buildUserResponse(user))
}

// UpdateProfileRequest patches profile fields. Absent fields are left
// unchanged.
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// UpdateProfile merges the submitted fields into the account.
func (h *Handler) UpdateProfile(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	user, err := h.UserAuthService.UpdateProfile(uid, service.ProfilePatch{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "user not found", nil)
		case errors.Is(err, service.ErrProfileEmpty):
			respondError(c, response.CodeBadRequest, "no profile fields submitted", nil)
		default:
			respondError(c, response.CodeInternal, "profile update failed", err)
		}
		return
	}
	response.Success(c, buildUserResponse(user))
}

// ResendVerificationRequest reissues the verification link.
type ResendVerificationRequest struct {
	Email          string                       `json:"email" binding:"required"`
	CaptchaPayload service.CaptchaVerifyPayload `json:"captcha_payload"`
}

// ResendVerification reissues the verification link, captcha gated when
// the scene is enabled.
func (h *Handler) ResendVerification(c *gin.Context) {
	var req ResendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	if h.CaptchaService != nil {
		if captchaErr := h.CaptchaService.Verify(constants.CaptchaSceneResendVerification, req.CaptchaPayload); captchaErr != nil {
			switch {
			case errors.Is(captchaErr, service.ErrCaptchaRequired):
				respondError(c, response.CodeBadRequest, "captcha required", nil)
			case errors.Is(captchaErr, service.ErrCaptchaInvalid):
				respondError(c, response.CodeBadRequest, "captcha incorrect", nil)
			default:
				respondError(c, response.CodeInternal, "captcha verification failed", captchaErr)
			}
			return
		}
	}

	if err := h.UserAuthService.ResendVerification(req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			respondError(c, response.CodeBadRequest, "invalid email address", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "user not found", nil)
		case errors.Is(err, service.ErrVerifyTokenInvalid):
			respondError(c, response.CodeBadRequest, "email already verified", nil)
		case errors.Is(err, service.ErrVerifyTooFrequent):
			respondError(c, response.CodeTooManyRequests, "verification email sent too recently", nil)
		case errors.Is(err, service.ErrEmailServiceDisabled),
			errors.Is(err, service.ErrEmailServiceNotConfigured):
			respondError(c, response.CodeInternal, "email service not configured", err)
		default:
			respondError(c, response.CodeInternal, "failed to send verification email", err)
		}
		return
	}

	response.Success(c, gin.H{"sent": true})
}

// VerifyEmailRequest carries the token when posted as a body.
type VerifyEmailRequest struct {
	Token string `json:"token"`
}

// VerifyEmail redeems a verification token. Emailed links open it with
// GET and a query parameter; API clients may POST a JSON body instead.
func (h *Handler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" && c.Request.Method == http.MethodPost {
		var req VerifyEmailRequest
		if err := c.ShouldBindJSON(&req); err == nil {
			token = req.Token
		}
	}
	user, err := h.UserAuthService.VerifyEmail(token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVerifyTokenInvalid):
			respondError(c, response.CodeBadRequest, "verification link invalid or already used", nil)
		case errors.Is(err, service.ErrVerifyTokenExpired):
			respondError(c, response.CodeBadRequest, "verification link expired", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "user not found", nil)
		default:
			respondError(c, response.CodeInternal, "verification failed", err)
		}
		return
	}
	response.Success(c, gin.H{"user": buildUserResponse(user), "verified": true})
}

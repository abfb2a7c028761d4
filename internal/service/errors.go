package service

import "errors"

// Sentinel errors returned by services. Handlers map these to response
// codes and messages.
var (
	ErrNotFound     = errors.New("record not found")
	ErrInvalidEmail = errors.New("invalid email")

	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserDisabled       = errors.New("user disabled")
	ErrEmailNotVerified   = errors.New("email not verified")
	ErrWeakPassword       = errors.New("password too weak")
	ErrProfileEmpty       = errors.New("no profile fields to update")

	ErrVerifyTokenInvalid = errors.New("verification token invalid")
	ErrVerifyTokenExpired = errors.New("verification token expired")
	ErrVerifyTooFrequent  = errors.New("verification email sent too frequently")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")

	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")

	ErrInvalidCartItem     = errors.New("invalid cart item")
	ErrProductNotAvailable = errors.New("product not available")

	ErrCartEmpty            = errors.New("cart is empty")
	ErrCheckoutNotFound     = errors.New("no active checkout session")
	ErrCheckoutStateInvalid = errors.New("operation not allowed in current checkout state")
	ErrContactInfoRequired  = errors.New("phone and address are required")
)

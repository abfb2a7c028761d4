package constants

// Order status constants. Only "pending" is ever assigned by checkout;
// the remaining statuses exist for display compatibility.
const (
	OrderStatusPending   = "pending"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
)

// Checkout session states
const (
	CheckoutStateCollectingInfo = "collecting_info"
	CheckoutStateQRShown        = "qr_shown"
	CheckoutStateProcessing     = "processing"
	CheckoutStateVerified       = "verified"
	CheckoutStateComplete       = "complete"
)

// User account status constants
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Mirror store keys. One record per (user, key); absence means "no data yet".
const (
	StoreKeyUser   = "user"
	StoreKeyCart   = "cart"
	StoreKeyOrders = "orders"
)

// Email verification purpose constants
const (
	VerifyPurposeSignup = "signup"
)

// Captcha scene constants
const (
	CaptchaSceneResendVerification = "resend_verification"
)

// Queue and task name constants
const (
	QueueDefault = "default"

	TaskVerificationEmail      = "email:verification"
	TaskOrderConfirmationEmail = "email:order_confirmation"
)

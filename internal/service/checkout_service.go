package service

import (
	"encoding/base64"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/quickkart/quickkart/internal/config"
	"github.com/quickkart/quickkart/internal/constants"
	"github.com/quickkart/quickkart/internal/logger"
	"github.com/quickkart/quickkart/internal/models"
	"github.com/quickkart/quickkart/internal/queue"
	"github.com/quickkart/quickkart/internal/repository"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

// CheckoutStatus is the session state reported to the client.
type CheckoutStatus struct {
	State       string       `json:"state"`
	Total       models.Money `json:"total"`
	QRImage     string       `json:"qr_image,omitempty"`
	OrderNo     string       `json:"order_no,omitempty"`
	NavigateOut bool         `json:"navigate_out"`
}

type checkoutLine struct {
	productID uint
	name      string
	image     string
	unitPrice models.Money
	quantity  int
}

type checkoutSession struct {
	userID  uint
	state   string
	phone   string
	address string
	total   models.Money
	lines   []checkoutLine
	qrImage string
	orderNo string
	timer   *time.Timer
}

// CheckoutService drives the simulated payment flow. One session per
// user, held in memory; stage transitions fire on cancellable timers so
// an abort before the verified stage leaves no trace.
type CheckoutService struct {
	cfg       *config.CheckoutConfig
	db        *gorm.DB
	cartRepo  repository.CartRepository
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	mirror    *MirrorStore
	queue     *queue.Client
	email     *EmailService

	mu       sync.Mutex
	sessions map[uint]*checkoutSession
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(
	cfg *config.CheckoutConfig,
	db *gorm.DB,
	cartRepo repository.CartRepository,
	orderRepo repository.OrderRepository,
	userRepo repository.UserRepository,
	mirror *MirrorStore,
	queueClient *queue.Client,
	emailService *EmailService,
) *CheckoutService {
	return &CheckoutService{
		cfg:       cfg,
		db:        db,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		mirror:    mirror,
		queue:     queueClient,
		email:     emailService,
		sessions:  make(map[uint]*checkoutSession),
	}
}

// Begin opens a session in collecting_info. An earlier unfinished session
// for the same user is aborted first. The cart must not be empty.
func (s *CheckoutService) Begin(userID uint) (*CheckoutStatus, error) {
	if userID == 0 {
		return nil, ErrNotFound
	}
	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[userID]; ok {
		stopTimer(existing)
	}
	session := &checkoutSession{
		userID: userID,
		state:  constants.CheckoutStateCollectingInfo,
	}
	s.sessions[userID] = session
	return statusOf(session), nil
}

// SubmitInfo validates the contact fields, snapshots the cart, renders
// the UPI QR and moves to qr_shown. The processing transition is
// scheduled on a timer; nothing here waits for a payment.
func (s *CheckoutService) SubmitInfo(userID uint, phone, address string) (*CheckoutStatus, error) {
	phone = strings.TrimSpace(phone)
	address = strings.TrimSpace(address)
	if phone == "" || address == "" {
		return nil, ErrContactInfoRequired
	}

	items, err := s.cartRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	lines := make([]checkoutLine, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			return nil, ErrProductNotAvailable
		}
		lines = append(lines, checkoutLine{
			productID: item.ProductID,
			name:      item.Product.Name,
			image:     item.Product.Image,
			unitPrice: item.Product.Price,
			quantity:  item.Quantity,
		})
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	totalMoney := models.NewMoneyFromDecimal(total)

	qrImage, err := s.renderUPIQR(totalMoney)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return nil, ErrCheckoutNotFound
	}
	if session.state != constants.CheckoutStateCollectingInfo {
		return nil, ErrCheckoutStateInvalid
	}

	session.phone = phone
	session.address = address
	session.lines = lines
	session.total = totalMoney
	session.qrImage = qrImage
	session.state = constants.CheckoutStateQRShown
	s.scheduleLocked(session, s.qrShownDuration(), s.enterProcessing)
	return statusOf(session), nil
}

// Status reports the current session state.
func (s *CheckoutService) Status(userID uint) (*CheckoutStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return nil, ErrCheckoutNotFound
	}
	return statusOf(session), nil
}

// Abort cancels the session. Before the verified stage this erases the
// attempt entirely; from verified on the order already exists and stands.
func (s *CheckoutService) Abort(userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok {
		return nil
	}
	stopTimer(session)
	delete(s.sessions, userID)
	return nil
}

func (s *CheckoutService) enterProcessing(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok || session.state != constants.CheckoutStateQRShown {
		return
	}
	session.state = constants.CheckoutStateProcessing
	s.scheduleLocked(session, s.processingDuration(), s.enterVerified)
}

// enterVerified holds the lock across the order transaction, so a
// concurrent Abort either lands before it (no order is written) or after
// it (the session is already verified and the order stands).
func (s *CheckoutService) enterVerified(userID uint) {
	s.mu.Lock()
	session, ok := s.sessions[userID]
	if !ok || session.state != constants.CheckoutStateProcessing {
		s.mu.Unlock()
		return
	}
	orderNo := fmt.Sprintf("ORD-%d", time.Now().UnixMilli())

	order, err := s.placeOrder(userID, orderNo, session.phone, session.address, session.total, session.lines)
	if err != nil {
		s.mu.Unlock()
		logger.Errorw("checkout_place_order_failed", "user_id", userID, "error", err)
		return
	}

	session.state = constants.CheckoutStateVerified
	session.orderNo = order.OrderNo
	s.scheduleLocked(session, s.verifiedDuration(), s.enterComplete)
	s.mu.Unlock()

	s.notifyOrderPlaced(userID, order)
}

func (s *CheckoutService) enterComplete(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[userID]
	if !ok || session.state != constants.CheckoutStateVerified {
		return
	}
	session.state = constants.CheckoutStateComplete
	session.timer = nil
}

// placeOrder runs the verified step in one transaction: order snapshot,
// cart clear and both blob mirrors. No partial state is observable.
func (s *CheckoutService) placeOrder(userID uint, orderNo, phone, address string, total models.Money, lines []checkoutLine) (*models.Order, error) {
	now := time.Now()
	order := &models.Order{
		OrderNo:     orderNo,
		UserID:      userID,
		Status:      constants.OrderStatusPending,
		Currency:    "INR",
		TotalAmount: total,
		Phone:       phone,
		Address:     address,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, line := range lines {
		lineTotal := line.unitPrice.Mul(decimal.NewFromInt(int64(line.quantity)))
		order.Items = append(order.Items, models.OrderItem{
			ProductID:  line.productID,
			Name:       line.name,
			Image:      line.image,
			UnitPrice:  line.unitPrice,
			Quantity:   line.quantity,
			TotalPrice: models.NewMoneyFromDecimal(lineTotal),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.WithTx(tx).Create(order); err != nil {
			return err
		}
		if err := s.cartRepo.WithTx(tx).ClearByUser(userID); err != nil {
			return err
		}
		mirror := s.mirror.WithTx(tx)
		if err := mirror.SaveCart(userID, nil); err != nil {
			return err
		}
		orders, err := s.orderRepo.WithTx(tx).ListByUser(userID)
		if err != nil {
			return err
		}
		return mirror.SaveOrders(userID, orders)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *CheckoutService) notifyOrderPlaced(userID uint, order *models.Order) {
	if s.queue.Enabled() {
		if err := s.queue.EnqueueOrderConfirmationEmail(queue.OrderConfirmationEmailPayload{OrderID: order.ID}); err != nil {
			logger.Warnw("order_confirmation_enqueue_failed", "order_no", order.OrderNo, "error", err)
		}
		return
	}
	if s.email == nil {
		return
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil || user == nil {
		return
	}
	if err := s.email.SendOrderConfirmation(user.Email, OrderConfirmationInput{
		OrderNo: order.OrderNo,
		Total:   order.TotalAmount,
	}); err != nil && err != ErrEmailServiceDisabled {
		logger.Warnw("order_confirmation_send_failed", "order_no", order.OrderNo, "error", err)
	}
}

func (s *CheckoutService) renderUPIQR(total models.Money) (string, error) {
	payee := strings.TrimSpace(s.cfg.UPIPayeeID)
	if payee == "" {
		payee = "quickkart@upi"
	}
	name := strings.TrimSpace(s.cfg.UPIPayeeName)
	if name == "" {
		name = "QuickKart"
	}
	uri := fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=INR", payee, name, total.String())
	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// scheduleLocked replaces the session timer. Callers hold s.mu.
func (s *CheckoutService) scheduleLocked(session *checkoutSession, d time.Duration, fn func(uint)) {
	stopTimer(session)
	userID := session.userID
	session.timer = time.AfterFunc(d, func() { fn(userID) })
}

func (s *CheckoutService) qrShownDuration() time.Duration {
	return resolveStageSeconds(s.cfg.QRShownSeconds, 10)
}

func (s *CheckoutService) processingDuration() time.Duration {
	return resolveStageSeconds(s.cfg.ProcessingSeconds, 3)
}

func (s *CheckoutService) verifiedDuration() time.Duration {
	return resolveStageSeconds(s.cfg.VerifiedSeconds, 2)
}

func resolveStageSeconds(seconds, fallback int) time.Duration {
	if seconds < 0 {
		seconds = 0
	} else if seconds == 0 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}

func stopTimer(session *checkoutSession) {
	if session.timer != nil {
		session.timer.Stop()
		session.timer = nil
	}
}

func statusOf(session *checkoutSession) *CheckoutStatus {
	return &CheckoutStatus{
		State:       session.state,
		Total:       session.total,
		QRImage:     session.qrImage,
		OrderNo:     session.orderNo,
		NavigateOut: session.state == constants.CheckoutStateComplete,
	}
}

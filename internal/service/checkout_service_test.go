package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/quickkart/quickkart/internal/config"
	"github.com/quickkart/quickkart/internal/constants"
	"github.com/quickkart/quickkart/internal/queue"
	"github.com/quickkart/quickkart/internal/repository"

	"gorm.io/gorm"
)

type checkoutFixture struct {
	svc       *CheckoutService
	cart      *CartService
	orderRepo repository.OrderRepository
	storeRepo repository.StoreRecordRepository
	db        *gorm.DB
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	db := openTestDB(t)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	storeRepo := repository.NewStoreRecordRepository(db)
	mirror := NewMirrorStore(storeRepo)

	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}

	cfg := &config.CheckoutConfig{
		QRShownSeconds:    10,
		ProcessingSeconds: 3,
		VerifiedSeconds:   2,
		UPIPayeeID:        "quickkart@upi",
		UPIPayeeName:      "QuickKart",
	}
	svc := NewCheckoutService(cfg, db, cartRepo, orderRepo, userRepo, mirror, queueClient, nil)
	cart := NewCartService(cartRepo, productRepo, mirror)
	return &checkoutFixture{svc: svc, cart: cart, orderRepo: orderRepo, storeRepo: storeRepo, db: db}
}

func (f *checkoutFixture) fillCart(t *testing.T, userID uint, quantities map[uint]int) {
	t.Helper()
	for productID, qty := range quantities {
		if err := f.cart.AddItem(userID, productID); err != nil {
			t.Fatalf("add to cart failed: %v", err)
		}
		if qty > 1 {
			if err := f.cart.SetQuantity(userID, productID, qty); err != nil {
				t.Fatalf("set quantity failed: %v", err)
			}
		}
	}
}

func TestCheckoutBeginRequiresNonEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createTestUser(t, f.db, "buyer@example.com")

	_, err := f.svc.Begin(user.ID)
	if !errors.Is(err, ErrCartEmpty) {
		t.Fatalf("expected ErrCartEmpty, got %v", err)
	}
}

func TestCheckoutSubmitInfoValidation(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createTestUser(t, f.db, "buyer@example.com")
	product := createTestProduct(t, f.db, "earbuds", 1659, true)
	f.fillCart(t, user.ID, map[uint]int{product.ID: 1})

	// Missing contact fields fail before any state is touched.
	if _, err := f.svc.SubmitInfo(user.ID, "", "12 Main Road"); !errors.Is(err, ErrContactInfoRequired) {
		t.Fatalf("expected ErrContactInfoRequired for blank phone, got %v", err)
	}
	if _, err := f.svc.SubmitInfo(user.ID, "9876543210", "  "); !errors.Is(err, ErrContactInfoRequired) {
		t.Fatalf("expected ErrContactInfoRequired for blank address, got %v", err)
	}

	// Without an open session the submit is rejected.
	if _, err := f.svc.SubmitInfo(user.ID, "9876543210", "12 Main Road"); !errors.Is(err, ErrCheckoutNotFound) {
		t.Fatalf("expected ErrCheckoutNotFound, got %v", err)
	}
}

func TestCheckoutFullFlow(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createTestUser(t, f.db, "buyer@example.com")
	earbuds := createTestProduct(t, f.db, "earbuds", 1659, true)
	bottle := createTestProduct(t, f.db, "bottle", 829, true)
	f.fillCart(t, user.ID, map[uint]int{earbuds.ID: 2, bottle.ID: 1})

	status, err := f.svc.Begin(user.ID)
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if status.State != constants.CheckoutStateCollectingInfo {
		t.Fatalf("expected collecting_info, got %s", status.State)
	}

	status, err = f.svc.SubmitInfo(user.ID, "9876543210", "12 Main Road, Mumbai")
	if err != nil {
		t.Fatalf("submit info failed: %v", err)
	}
	if status.State != constants.CheckoutStateQRShown {
		t.Fatalf("expected qr_shown, got %s", status.State)
	}
	if status.QRImage == "" {
		t.Fatal("expected a rendered QR image")
	}
	if status.Total.String() != "4147.00" {
		t.Fatalf("expected total 4147.00, got %s", status.Total.String())
	}

	// Drive the timed transitions directly instead of waiting.
	f.svc.enterProcessing(user.ID)
	status, err = f.svc.Status(user.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if status.State != constants.CheckoutStateProcessing {
		t.Fatalf("expected processing, got %s", status.State)
	}

	f.svc.enterVerified(user.ID)
	status, err = f.svc.Status(user.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if status.State != constants.CheckoutStateVerified {
		t.Fatalf("expected verified, got %s", status.State)
	}
	if status.OrderNo == "" {
		t.Fatal("expected an order number in verified state")
	}

	// The order exists with snapshot lines and the cart is now empty.
	order, err := f.orderRepo.GetByOrderNo(user.ID, status.OrderNo)
	if err != nil {
		t.Fatalf("load order failed: %v", err)
	}
	if order == nil {
		t.Fatal("expected order row after verified stage")
	}
	if order.Status != constants.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if order.Currency != "INR" {
		t.Fatalf("expected INR order, got %s", order.Currency)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 snapshot lines, got %d", len(order.Items))
	}
	if order.TotalAmount.String() != "4147.00" {
		t.Fatalf("expected order total 4147.00, got %s", order.TotalAmount.String())
	}
	if order.Phone != "9876543210" || order.Address != "12 Main Road, Mumbai" {
		t.Fatalf("unexpected contact snapshot: %q %q", order.Phone, order.Address)
	}

	summary, err := f.cart.Summary(user.ID)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if len(summary.Items) != 0 {
		t.Fatalf("expected empty cart after order, got %d rows", len(summary.Items))
	}

	// Both mirrors were rewritten inside the same transaction.
	cartBlob, err := f.storeRepo.Get(user.ID, constants.StoreKeyCart)
	if err != nil || cartBlob == nil {
		t.Fatalf("expected cart mirror, err=%v", err)
	}
	var mirroredCart []StoredCartLine
	if err := json.Unmarshal([]byte(cartBlob.Value), &mirroredCart); err != nil {
		t.Fatalf("unmarshal cart mirror failed: %v", err)
	}
	if len(mirroredCart) != 0 {
		t.Fatalf("expected empty mirrored cart, got %+v", mirroredCart)
	}
	orderBlob, err := f.storeRepo.Get(user.ID, constants.StoreKeyOrders)
	if err != nil || orderBlob == nil {
		t.Fatalf("expected orders mirror, err=%v", err)
	}
	var mirroredOrders []StoredOrder
	if err := json.Unmarshal([]byte(orderBlob.Value), &mirroredOrders); err != nil {
		t.Fatalf("unmarshal orders mirror failed: %v", err)
	}
	if len(mirroredOrders) != 1 || mirroredOrders[0].OrderNo != status.OrderNo {
		t.Fatalf("unexpected mirrored orders: %+v", mirroredOrders)
	}

	f.svc.enterComplete(user.ID)
	status, err = f.svc.Status(user.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if status.State != constants.CheckoutStateComplete {
		t.Fatalf("expected complete, got %s", status.State)
	}
	if !status.NavigateOut {
		t.Fatal("expected navigate_out in complete state")
	}
}

func TestCheckoutCompletedOrderAllowsReBuying(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createTestUser(t, f.db, "buyer@example.com")
	product := createTestProduct(t, f.db, "earbuds", 1659, true)
	f.fillCart(t, user.ID, map[uint]int{product.ID: 1})

	if _, err := f.svc.Begin(user.ID); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if _, err := f.svc.SubmitInfo(user.ID, "9876543210", "12 Main Road"); err != nil {
		t.Fatalf("submit info failed: %v", err)
	}
	f.svc.enterProcessing(user.ID)
	f.svc.enterVerified(user.ID)
	f.svc.enterComplete(user.ID)

	// The cleared cart must accept the same product again.
	if err := f.cart.AddItem(user.ID, product.ID); err != nil {
		t.Fatalf("re-add after checkout failed: %v", err)
	}
	summary, err := f.cart.Summary(user.ID)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if len(summary.Items) != 1 || summary.Items[0].Quantity != 1 {
		t.Fatalf("expected fresh cart row, got %+v", summary.Items)
	}
}

func TestCheckoutAbortBeforeVerifiedLeavesNoOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createTestUser(t, f.db, "buyer@example.com")
	product := createTestProduct(t, f.db, "earbuds", 1659, true)
	f.fillCart(t, user.ID, map[uint]int{product.ID: 1})

	if _, err := f.svc.Begin(user.ID); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if _, err := f.svc.SubmitInfo(user.ID, "9876543210", "12 Main Road"); err != nil {
		t.Fatalf("submit info failed: %v", err)
	}
	if err := f.svc.Abort(user.ID); err != nil {
		t.Fatalf("abort failed: %v", err)
	}

	if _, err := f.svc.Status(user.ID); !errors.Is(err, ErrCheckoutNotFound) {
		t.Fatalf("expected ErrCheckoutNotFound after abort, got %v", err)
	}

	// A timer firing after abort must not create an order.
	f.svc.enterProcessing(user.ID)
	f.svc.enterVerified(user.ID)
	orders, err := f.orderRepo.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders after abort, got %d", len(orders))
	}

	// The cart survives the aborted attempt.
	summary, err := f.cart.Summary(user.ID)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if len(summary.Items) != 1 {
		t.Fatalf("expected cart to survive abort, got %d rows", len(summary.Items))
	}
}

func TestCheckoutAbortRacingVerifyIsAtomic(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createTestUser(t, f.db, "buyer@example.com")
	product := createTestProduct(t, f.db, "earbuds", 1659, true)
	f.fillCart(t, user.ID, map[uint]int{product.ID: 1})

	if _, err := f.svc.Begin(user.ID); err != nil {
		t.Fatalf("begin failed: %v", err)
	}
	if _, err := f.svc.SubmitInfo(user.ID, "9876543210", "12 Main Road"); err != nil {
		t.Fatalf("submit info failed: %v", err)
	}
	f.svc.enterProcessing(user.ID)

	// Abort and the verify transition race; whichever wins, the order
	// write and the cart clear must land together or not at all.
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.svc.enterVerified(user.ID)
	}()
	if err := f.svc.Abort(user.ID); err != nil {
		t.Fatalf("abort failed: %v", err)
	}
	<-done

	orders, err := f.orderRepo.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("list orders failed: %v", err)
	}
	summary, err := f.cart.Summary(user.ID)
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	switch len(orders) {
	case 0:
		if len(summary.Items) != 1 {
			t.Fatalf("abort won but cart was cleared: %+v", summary.Items)
		}
	case 1:
		if len(summary.Items) != 0 {
			t.Fatalf("order placed but cart survived: %+v", summary.Items)
		}
	default:
		t.Fatalf("expected at most one order, got %d", len(orders))
	}
}

func TestCheckoutStaleTransitionIsNoOp(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createTestUser(t, f.db, "buyer@example.com")
	product := createTestProduct(t, f.db, "earbuds", 1659, true)
	f.fillCart(t, user.ID, map[uint]int{product.ID: 1})

	if _, err := f.svc.Begin(user.ID); err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	// Transitions out of order leave the session where it is.
	f.svc.enterProcessing(user.ID)
	f.svc.enterVerified(user.ID)
	status, err := f.svc.Status(user.ID)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if status.State != constants.CheckoutStateCollectingInfo {
		t.Fatalf("expected collecting_info, got %s", status.State)
	}
}

func TestCheckoutBeginReplacesExistingSession(t *testing.T) {
	f := newCheckoutFixture(t)
	user := createTestUser(t, f.db, "buyer@example.com")
	product := createTestProduct(t, f.db, "earbuds", 1659, true)
	f.fillCart(t, user.ID, map[uint]int{product.ID: 1})

	if _, err := f.svc.Begin(user.ID); err != nil {
		t.Fatalf("first begin failed: %v", err)
	}
	if _, err := f.svc.SubmitInfo(user.ID, "9876543210", "12 Main Road"); err != nil {
		t.Fatalf("submit info failed: %v", err)
	}

	status, err := f.svc.Begin(user.ID)
	if err != nil {
		t.Fatalf("second begin failed: %v", err)
	}
	if status.State != constants.CheckoutStateCollectingInfo {
		t.Fatalf("expected fresh session in collecting_info, got %s", status.State)
	}
	if status.QRImage != "" || status.OrderNo != "" {
		t.Fatal("expected fresh session without QR or order number")
	}
}

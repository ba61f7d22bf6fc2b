package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/example/storefront/pkg/cart"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/pricing"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no line
	// items, regardless of how complete the shipping form is.
	ErrEmptyCart = errors.New("checkout: cart is empty")

	// ErrInvalidPaymentDetail is returned when the payment-method-specific
	// detail fails its shape check.
	ErrInvalidPaymentDetail = errors.New("checkout: invalid payment detail")

	// ErrSubmitInFlight is returned when Submit is called while another
	// submission is still being written.
	ErrSubmitInFlight = errors.New("checkout: submission already in flight")

	// ErrPersistence wraps failures from the order write boundary. The
	// cart is left untouched so the user can retry without rebuilding it.
	ErrPersistence = errors.New("checkout: order write failed")
)

// MissingFieldError reports the first blank required shipping field.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("checkout: missing required field %q", e.Field)
}

// OrderWriter is the persistence boundary. A single append of the order
// record; either it acknowledges (optionally with a generated id) or it
// reports an error. No transactional semantics are assumed beyond that.
type OrderWriter interface {
	PlaceOrder(ctx context.Context, order *models.Order) (string, error)
}

// Notifier delivers a fire-and-forget message after a successful order.
// Implementations must not block the caller.
type Notifier interface {
	Notify(recipient, message string)
}

// Form carries the checkout input collected from the user.
type Form struct {
	Name          string               `json:"name"`
	Address       string               `json:"address"`
	Phone         string               `json:"phone"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	UPIID         string               `json:"upi_id,omitempty"`
	CardNumber    string               `json:"card_number,omitempty"`
}

// Submission runs a single checkout attempt: validate the form, snapshot
// the cart into an order record, write it once, and clear the cart on an
// acknowledged write. There are no partial commits: either the full order
// is persisted and the cart is emptied, or nothing changes.
type Submission struct {
	store    *cart.Store
	calc     *pricing.Calculator
	writer   OrderWriter
	notifier Notifier
	logger   *zap.Logger
	inFlight atomic.Bool
	now      func() time.Time
}

func NewSubmission(store *cart.Store, calc *pricing.Calculator, writer OrderWriter, notifier Notifier, logger *zap.Logger) *Submission {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Submission{
		store:    store,
		calc:     calc,
		writer:   writer,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit validates the form and cart, writes the order record, and clears
// the cart on success. It returns the persisted order id. A second Submit
// while one is in flight fails with ErrSubmitInFlight; callers do not need
// to guard the button themselves.
func (s *Submission) Submit(ctx context.Context, form Form) (string, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return "", ErrSubmitInFlight
	}
	defer s.inFlight.Store(false)

	items := s.store.Items()
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	if err := validate(form); err != nil {
		return "", err
	}

	totals := s.calc.ComputeTotals(items)
	order := &models.Order{
		Items:          items,
		Subtotal:       totals.Subtotal,
		DeliveryFee:    totals.DeliveryFee,
		TotalAmount:    totals.GrandTotal,
		Customer:       models.Customer{Name: form.Name, Address: form.Address, Phone: form.Phone},
		PaymentMethod:  form.PaymentMethod,
		PaymentDetails: paymentDetails(form),
		Status:         models.OrderStatusPlaced,
		PlacedAt:       s.now().UTC(),
	}

	id, err := s.writer.PlaceOrder(ctx, order)
	if err != nil {
		s.logger.Error("order write failed", zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	s.store.Clear()

	s.logger.Info("order placed",
		zap.String("order_id", id),
		zap.Int64("total_amount", order.TotalAmount),
		zap.String("payment_method", string(order.PaymentMethod)))

	if s.notifier != nil {
		s.notifier.Notify(form.Phone, fmt.Sprintf("Order %s placed", id))
	}

	return id, nil
}

func validate(form Form) error {
	required := []struct {
		field string
		value string
	}{
		{"name", form.Name},
		{"address", form.Address},
		{"phone", form.Phone},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &MissingFieldError{Field: f.field}
		}
	}

	switch form.PaymentMethod {
	case models.PaymentUPI:
		if !strings.Contains(form.UPIID, "@") {
			return fmt.Errorf("%w: UPI id must contain '@'", ErrInvalidPaymentDetail)
		}
	case models.PaymentCard:
		if strings.TrimSpace(form.CardNumber) == "" {
			return fmt.Errorf("%w: card number is required", ErrInvalidPaymentDetail)
		}
	case models.PaymentCOD:
		// nothing to check
	default:
		return fmt.Errorf("%w: unknown payment method %q", ErrInvalidPaymentDetail, form.PaymentMethod)
	}

	return nil
}

func paymentDetails(form Form) string {
	switch form.PaymentMethod {
	case models.PaymentUPI:
		return form.UPIID
	case models.PaymentCard:
		return form.CardNumber
	default:
		return "Cash"
	}
}

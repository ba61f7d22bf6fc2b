package pricing

import (
	"strconv"
	"strings"

	"github.com/example/storefront/pkg/models"
)

// DefaultDeliveryFee is the flat fee charged on every non-empty order,
// in whole currency units.
const DefaultDeliveryFee int64 = 50

// Normalize converts a heterogeneous price representation into a whole
// currency amount. String inputs are stripped of everything that is not a
// decimal digit (currency symbols, separators, whitespace) and parsed
// base-10; numeric inputs are truncated to an integer. Anything that does
// not yield a valid number degrades to 0 rather than failing, so a bad
// catalog price renders as free instead of breaking the cart.
func Normalize(raw any) int64 {
	n, _ := NormalizeStrict(raw)
	return n
}

// NormalizeStrict is Normalize with an ok flag, for callers that want to
// surface unparseable prices instead of silently treating them as zero.
func NormalizeStrict(raw any) (int64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case float32:
		return int64(v), true
	case float64:
		return int64(v), true
	case string:
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, v)
		if digits == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// Totals is the pricing breakdown presented at checkout.
type Totals struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee"`
	GrandTotal  int64 `json:"grand_total"`
}

// Calculator derives order totals from cart contents.
type Calculator struct {
	DeliveryFee int64
}

// NewCalculator returns a Calculator with the given flat delivery fee.
// A non-positive fee falls back to DefaultDeliveryFee.
func NewCalculator(deliveryFee int64) *Calculator {
	if deliveryFee <= 0 {
		deliveryFee = DefaultDeliveryFee
	}
	return &Calculator{DeliveryFee: deliveryFee}
}

// ComputeTotals sums the normalized price of every line item and applies
// the flat delivery fee. The fee is waived only for a genuinely empty
// order (zero subtotal), never by order size.
func (c *Calculator) ComputeTotals(items []models.LineItem) Totals {
	fee := c.DeliveryFee

	var subtotal int64
	for _, item := range items {
		subtotal += Normalize(item.Product.Price)
	}

	if subtotal == 0 {
		fee = 0
	}

	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		GrandTotal:  subtotal + fee,
	}
}

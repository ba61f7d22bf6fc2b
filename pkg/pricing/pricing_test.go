package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/storefront/pkg/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want int64
	}{
		{"rupee symbol with separator", "₹1,299", 1299},
		{"prefix text", "Rs. 499", 499},
		{"plain digits", "750", 750},
		{"empty string", "", 0},
		{"letters only", "abc", 0},
		{"nil", nil, 0},
		{"int", 499, 499},
		{"int64", int64(1200), 1200},
		{"float truncates", 499.99, 499},
		{"whitespace and symbols", " $ 2 500 ", 2500},
		{"digits inside text", "price: 80 only", 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.raw))
		})
	}
}

func TestNormalizeStrict(t *testing.T) {
	n, ok := NormalizeStrict("₹1,299")
	assert.True(t, ok)
	assert.Equal(t, int64(1299), n)

	_, ok = NormalizeStrict("abc")
	assert.False(t, ok)

	_, ok = NormalizeStrict("")
	assert.False(t, ok)

	_, ok = NormalizeStrict(nil)
	assert.False(t, ok)

	n, ok = NormalizeStrict(499)
	assert.True(t, ok)
	assert.Equal(t, int64(499), n)
}

func priced(prices ...any) []models.LineItem {
	items := make([]models.LineItem, len(prices))
	for i, p := range prices {
		items[i] = models.LineItem{Product: models.Product{Price: p}}
	}
	return items
}

func TestComputeTotalsEmptyCart(t *testing.T) {
	calc := NewCalculator(50)
	totals := calc.ComputeTotals(nil)

	assert.Equal(t, Totals{Subtotal: 0, DeliveryFee: 0, GrandTotal: 0}, totals)
}

func TestComputeTotals(t *testing.T) {
	calc := NewCalculator(50)
	totals := calc.ComputeTotals(priced("₹500", "₹250"))

	assert.Equal(t, int64(750), totals.Subtotal)
	assert.Equal(t, int64(50), totals.DeliveryFee)
	assert.Equal(t, int64(800), totals.GrandTotal)
}

func TestComputeTotalsFeeWaivedOnlyForZeroSubtotal(t *testing.T) {
	calc := NewCalculator(50)

	// All prices unparseable: subtotal degrades to zero, so the fee is
	// waived too.
	totals := calc.ComputeTotals(priced("abc", ""))
	assert.Equal(t, Totals{Subtotal: 0, DeliveryFee: 0, GrandTotal: 0}, totals)

	// Any parseable price triggers the full flat fee.
	totals = calc.ComputeTotals(priced("abc", "₹1"))
	assert.Equal(t, Totals{Subtotal: 1, DeliveryFee: 50, GrandTotal: 51}, totals)
}

func TestNewCalculatorDefaultFee(t *testing.T) {
	calc := NewCalculator(0)
	assert.Equal(t, DefaultDeliveryFee, calc.DeliveryFee)

	calc = NewCalculator(80)
	assert.Equal(t, int64(80), calc.DeliveryFee)
}

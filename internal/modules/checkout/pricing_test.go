package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestShippingRules(t *testing.T) {
	p := testPricing()
	p.FreeThreshold = decimal.NewFromInt(1000)

	cases := []struct {
		method string
		items  int64
		want   int64
	}{
		{ShippingStandard, 250, 30},
		{ShippingExpress, 250, 60},
		{"", 250, 30},
		{ShippingExpress, 1000, 0},
		{ShippingStandard, 1200, 0},
	}
	for _, tc := range cases {
		got := p.Shipping(tc.method, decimal.NewFromInt(tc.items))
		assert.True(t, decimal.NewFromInt(tc.want).Equal(got), "%s %d: got %s", tc.method, tc.items, got)
	}
}

func TestTotalsRoundToCents(t *testing.T) {
	items, shipping, total := testPricing().Totals(ShippingStandard, decimal.RequireFromString("99.995"))
	assert.Equal(t, "100", items.String())
	assert.Equal(t, "30", shipping.String())
	assert.Equal(t, "130", total.String())
}

func TestDisplayNeedsCurrencyAndRate(t *testing.T) {
	p := testPricing()
	_, _, ok := p.Display(decimal.NewFromInt(100))
	assert.False(t, ok)

	p.DisplayCurrency = "EUR"
	_, _, ok = p.Display(decimal.NewFromInt(100))
	assert.False(t, ok)

	p.DisplayRate = decimal.RequireFromString("0.1")
	cur, amt, ok := p.Display(decimal.NewFromInt(100))
	assert.True(t, ok)
	assert.Equal(t, "EUR", cur)
	assert.Equal(t, "10", amt.String())
}

package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/Le-Yoy/brendt-store-sub001/internal/config"
)

// Pricing holds the shipping rules and the optional display conversion.
type Pricing struct {
	Currency      string
	Standard      decimal.Decimal
	Express       decimal.Decimal
	FreeThreshold decimal.Decimal // zero disables free shipping

	DisplayCurrency string
	DisplayRate     decimal.Decimal
}

func PricingFromConfig(cfg config.Config) Pricing {
	return Pricing{
		Currency:        cfg.Currency,
		Standard:        cfg.StandardShipping,
		Express:         cfg.ExpressShipping,
		FreeThreshold:   cfg.FreeShippingThreshold,
		DisplayCurrency: cfg.DisplayCurrency,
		DisplayRate:     cfg.DisplayRate,
	}
}

// Shipping returns the shipping price for method given the items subtotal.
func (p Pricing) Shipping(method string, items decimal.Decimal) decimal.Decimal {
	if p.FreeThreshold.IsPositive() && items.GreaterThanOrEqual(p.FreeThreshold) {
		return decimal.Zero
	}
	if method == ShippingExpress {
		return p.Express
	}
	return p.Standard
}

// Totals derives itemsPrice, shippingPrice and totalPrice from a subtotal.
func (p Pricing) Totals(method string, subtotal decimal.Decimal) (items, shipping, total decimal.Decimal) {
	items = subtotal.Round(2)
	shipping = p.Shipping(method, items).Round(2)
	return items, shipping, items.Add(shipping)
}

// Display converts total for an alternate payment rail. It is informational
// only: the order API always receives the unconverted total.
func (p Pricing) Display(total decimal.Decimal) (currency string, amount decimal.Decimal, ok bool) {
	if p.DisplayCurrency == "" || !p.DisplayRate.IsPositive() {
		return "", decimal.Zero, false
	}
	return p.DisplayCurrency, total.Mul(p.DisplayRate).Round(2), true
}

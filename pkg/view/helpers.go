package view

import (
	"github.com/shopspring/decimal"
)

// Money renders an amount with its currency, e.g. "€10.00" or "250.00 MAD".
func Money(amount decimal.Decimal, currency string) string {
	s := amount.StringFixed(2)
	switch currency {
	case "EUR":
		return "€" + s
	case "USD":
		return "$" + s
	case "GBP":
		return "£" + s
	case "TRY":
		return "₺" + s
	case "":
		return s
	default:
		return s + " " + currency
	}
}

package view

import "github.com/shopspring/decimal"

type ShippingOption struct {
	Code     string          `json:"code"`
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
	Price    string          `json:"price"`
	Selected bool            `json:"selected"`
}

// CheckoutSummary is the priced view of a cart before submission.
// DisplayTotal is informational and never sent to the order API.
type CheckoutSummary struct {
	Currency        string           `json:"currency"`
	Items           int              `json:"items"`
	ItemsPrice      decimal.Decimal  `json:"itemsPrice"`
	ShippingPrice   decimal.Decimal  `json:"shippingPrice"`
	TotalPrice      decimal.Decimal  `json:"totalPrice"`
	Subtotal        string           `json:"subtotal"`
	Shipping        string           `json:"shipping"`
	Total           string           `json:"total"`
	ShippingOptions []ShippingOption `json:"shippingOptions"`

	DisplayCurrency string           `json:"displayCurrency,omitempty"`
	DisplayAmount   *decimal.Decimal `json:"displayAmount,omitempty"`
	DisplayTotal    string           `json:"displayTotal,omitempty"`
}

package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

// MaxQuantity caps a single line.
const MaxQuantity = 99

var (
	ErrInvalidQuantity = errors.New("cart: quantity must be between 1 and 99")
	ErrInvalidPrice    = errors.New("cart: price must not be negative")
	ErrMissingProduct  = errors.New("cart: product id is required")
)

// Item is one cart line. Lines are unique by Key.
type Item struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Size      string          `json:"size"`
	Color     string          `json:"color"`
	ColorCode string          `json:"colorCode,omitempty"`
	Image     string          `json:"image,omitempty"`
}

// Key identifies a line: the same product in another size or color is a
// different line.
type Key struct {
	ProductID string
	Size      string
	Color     string
}

func (it Item) Key() Key {
	return Key{ProductID: it.ProductID, Size: it.Size, Color: it.Color}
}

func (it Item) LineTotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

func (it Item) validate() error {
	switch {
	case it.ProductID == "":
		return ErrMissingProduct
	case it.Quantity < 1 || it.Quantity > MaxQuantity:
		return ErrInvalidQuantity
	case it.Price.IsNegative():
		return ErrInvalidPrice
	}
	return nil
}

// State is an observable snapshot. Total and ItemCount are always derived
// from Items.
type State struct {
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

func (s State) Empty() bool { return len(s.Items) == 0 }

// Record is the persisted form written to both storage tiers.
type Record struct {
	Items []Item          `json:"items"`
	Total decimal.Decimal `json:"total"`
}

func totals(items []Item) (decimal.Decimal, int) {
	total := decimal.Zero
	count := 0
	for _, it := range items {
		total = total.Add(it.LineTotal())
		count += it.Quantity
	}
	return total, count
}

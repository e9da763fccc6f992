package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/cart"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/orders"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/payments"
)

// Payment status shown on the confirmation page.
const (
	PaymentPaid          = "paid"
	PaymentUnpaid        = "unpaid"
	PaymentPending       = "pending"
	PaymentIndeterminate = "indeterminate"
	PaymentUnknown       = "unknown"
)

// Where a confirmation record came from.
const (
	SourcePaymentSession = "payment_session"
	SourceSnapshot       = "snapshot"
	SourceCart           = "cart"
	SourceRecentOrder    = "recent_order"
	SourceNone           = "none"
)

// ThankYou is the confirmation record stored under the thank_you and
// recent_order keys.
type ThankYou struct {
	OrderID         string                 `json:"orderId,omitempty"`
	OrderNumber     string                 `json:"orderNumber,omitempty"`
	Items           []orders.Item          `json:"items"`
	ShippingAddress orders.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod,omitempty"`
	ItemsPrice      decimal.Decimal        `json:"itemsPrice"`
	ShippingPrice   decimal.Decimal        `json:"shippingPrice"`
	TotalPrice      decimal.Decimal        `json:"totalPrice"`
	Currency        string                 `json:"currency,omitempty"`
	IsPaid          bool                   `json:"isPaid"`
	PaidAt          *time.Time             `json:"paidAt,omitempty"`
	PaidAmount      *decimal.Decimal       `json:"paidAmount,omitempty"`
	PaymentStatus   string                 `json:"paymentStatus"`
	Source          string                 `json:"source"`
	Message         string                 `json:"message,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
}

func orderItems(items []cart.Item) []orders.Item {
	out := make([]orders.Item, 0, len(items))
	for _, it := range items {
		out = append(out, orders.Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Price:     it.Price,
			Size:      it.Size,
			Color:     it.Color,
			ColorCode: it.ColorCode,
			Image:     it.Image,
		})
	}
	return out
}

func snapshotFromOrder(o orders.Order, currency string) ThankYou {
	rec := ThankYou{
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		Items:           o.OrderItems,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		ItemsPrice:      o.ItemsPrice,
		ShippingPrice:   o.ShippingPrice,
		TotalPrice:      o.TotalPrice,
		Currency:        currency,
		IsPaid:          o.IsPaid,
		PaidAt:          o.PaidAt,
		Source:          SourceSnapshot,
		CreatedAt:       o.CreatedAt,
	}
	switch {
	case o.IsPaid:
		rec.PaymentStatus = PaymentPaid
	case o.PaymentMethod == orders.PaymentCard:
		rec.PaymentStatus = PaymentPending
	default:
		rec.PaymentStatus = PaymentUnpaid
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	return rec
}

// applySession overlays the provider-confirmed payment onto rec.
func applySession(rec *ThankYou, st payments.SessionStatus) {
	if !st.Paid() {
		if !rec.IsPaid {
			rec.PaymentStatus = PaymentPending
		}
		return
	}
	rec.IsPaid = true
	rec.PaymentStatus = PaymentPaid
	if st.PaidAt != nil {
		rec.PaidAt = st.PaidAt
	} else if rec.PaidAt == nil {
		now := time.Now().UTC()
		rec.PaidAt = &now
	}
	if !st.AmountTotal.IsZero() {
		amt := st.AmountTotal
		rec.PaidAmount = &amt
	}
	if st.Currency != "" {
		rec.Currency = st.Currency
	}
}

package payments

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPaid   = "paid"
	StatusUnpaid = "unpaid"

	SessionOpen     = "open"
	SessionComplete = "complete"
	SessionExpired  = "expired"
)

// SessionStatus is the provider-confirmed state of a checkout session.
type SessionStatus struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"paymentStatus"`
	AmountTotal   decimal.Decimal   `json:"amountTotal"`
	Currency      string            `json:"currency"`
	PaidAt        *time.Time        `json:"paidAt,omitempty"`
	Metadata      map[string]string `json:"metadata"`
}

func (s SessionStatus) Paid() bool { return s.PaymentStatus == StatusPaid }

// OrderID is the order correlated with the session at creation time.
func (s SessionStatus) OrderID() string { return s.Metadata["orderId"] }

package payments

import (
	"context"

	"github.com/shopspring/decimal"
)

type LineItem struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	UnitAmount decimal.Decimal `json:"unitAmount"`
	Image      string          `json:"image,omitempty"`
}

type Customer struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// CreateSessionRequest asks the provider for a hosted payment page for an
// order that already exists. OrderID is echoed back by VerifySession.
type CreateSessionRequest struct {
	OrderID    string          `json:"orderId"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	LineItems  []LineItem      `json:"lineItems"`
	Customer   Customer        `json:"customer"`
	SuccessURL string          `json:"successUrl"`
	CancelURL  string          `json:"cancelUrl"`
}

type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type Provider interface {
	Name() string
	CreateCheckoutSession(ctx context.Context, req CreateSessionRequest) (Session, error)
	VerifySession(ctx context.Context, sessionID string) (SessionStatus, error)
}

// Package storage persists small per-client JSON records across two tiers
// with different lifetimes. The session tier is short-lived and reflects the
// current browsing session; the durable tier survives it. Both hold the same
// logical record under the same key.
package storage

import (
	"context"
	"errors"
)

// Keys shared by every tier.
const (
	KeyCart            = "cart"
	KeyThankYou        = "thank_you"
	KeyCheckoutForm    = "checkout_form"
	KeyRecentOrder     = "recent_order"
	KeyClearCartIntent = "clear_cart_after_redirect"
)

var ErrInvalidScope = errors.New("storage: empty scope or key")

// Tier is one key-value persistence backend. Get reports ok=false for a
// missing key; err is reserved for backend failures.
type Tier interface {
	Name() string
	Get(ctx context.Context, scope, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, scope, key string, value []byte) error
	Delete(ctx context.Context, scope, key string) error
}

// checkScope rejects names that are empty or that would resolve to a
// directory when used as a path element.
func checkScope(scope, key string) error {
	for _, s := range []string{scope, key} {
		switch s {
		case "", ".", "..":
			return ErrInvalidScope
		}
	}
	return nil
}

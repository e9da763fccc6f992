package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/cart"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/orders"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/payments"
	"github.com/Le-Yoy/brendt-store-sub001/internal/storage"
)

const (
	StateCanceled  = "canceled"
	StateConfirmed = "confirmed"
)

// errNoRecord means a source had nothing to offer; it is not a failure.
var errNoRecord = errors.New("checkout: source has no record")

// Entry describes how the shopper arrived at the confirmation page.
type Entry struct {
	Canceled  bool
	SessionID string
	Token     string
}

type Outcome struct {
	State       string    `json:"state"`
	Record      *ThankYou `json:"thankYou,omitempty"`
	Source      string    `json:"source,omitempty"`
	CartCleared bool      `json:"cartCleared"`
}

type source struct {
	name  string
	fetch func(ctx context.Context, scope string, e Entry) (*ThankYou, error)
}

// Resolver decides what the confirmation page shows and is the only place
// a cart is cleared after checkout.
type Resolver struct {
	carts    Carts
	storage  *storage.Adapter
	orders   orders.API
	payments payments.Provider
	pricing  Pricing
	logger   *slog.Logger
}

func NewResolver(d Deps) *Resolver {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Resolver{
		carts:    d.Carts,
		storage:  d.Storage,
		orders:   d.Orders,
		payments: d.Payments,
		pricing:  d.Pricing,
		logger:   d.Logger,
	}
}

func (r *Resolver) Resolve(ctx context.Context, scope string, e Entry) Outcome {
	st := r.storage.For(scope)

	if e.Canceled {
		out := Outcome{State: StateCanceled}
		var rec ThankYou
		if st.Read(ctx, storage.KeyThankYou, &rec) {
			out.Record = &rec
			out.Source = SourceSnapshot
		}
		r.logger.InfoContext(ctx, "checkout canceled", "client", scope, "has_snapshot", out.Record != nil)
		return out
	}

	out := Outcome{State: StateConfirmed}
	for _, src := range r.sources() {
		rec, err := r.try(ctx, src, scope, e)
		if errors.Is(err, errNoRecord) {
			continue
		}
		if err != nil {
			r.logger.WarnContext(ctx, "confirmation source failed", "client", scope, "source", src.name, "err", err)
			continue
		}
		out.Record = rec
		out.Source = src.name
		break
	}
	out.CartCleared = r.consumeIntent(ctx, scope, st)
	r.logger.InfoContext(ctx, "checkout confirmed",
		"client", scope, "source", out.Source, "cart_cleared", out.CartCleared)
	return out
}

func (r *Resolver) sources() []source {
	return []source{
		{SourcePaymentSession, r.fromPaymentSession},
		{SourceSnapshot, r.fromKey(storage.KeyThankYou, SourceSnapshot)},
		{SourceCart, r.fromCart},
		{SourceRecentOrder, r.fromKey(storage.KeyRecentOrder, SourceRecentOrder)},
		{SourceNone, r.fallback},
	}
}

func (r *Resolver) try(ctx context.Context, src source, scope string, e Entry) (rec *ThankYou, err error) {
	defer func() {
		if p := recover(); p != nil {
			rec, err = nil, fmt.Errorf("source %s panicked: %v", src.name, p)
		}
	}()
	rec, err = src.fetch(ctx, scope, e)
	if err == nil && rec == nil {
		err = errNoRecord
	}
	return rec, err
}

func (r *Resolver) fromPaymentSession(ctx context.Context, scope string, e Entry) (*ThankYou, error) {
	if e.SessionID == "" {
		return nil, errNoRecord
	}
	ss, err := r.payments.VerifySession(ctx, e.SessionID)
	if err != nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}
	orderID := ss.OrderID()
	if orderID == "" {
		return nil, payments.ErrMissingOrder
	}
	st := r.storage.For(scope)
	if !ownsOrder(ctx, st, orderID) {
		return nil, fmt.Errorf("session %s order %s: %w", e.SessionID, orderID, ErrOrderNotOwned)
	}
	o, err := r.orders.Get(ctx, orderID, e.Token)
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}

	rec := snapshotFromOrder(o, r.pricing.Currency)
	applySession(&rec, ss)
	rec.Source = SourcePaymentSession

	_ = st.Write(ctx, storage.KeyThankYou, rec)
	_ = st.Write(ctx, storage.KeyRecentOrder, rec)
	return &rec, nil
}

func (r *Resolver) fromKey(key, name string) func(context.Context, string, Entry) (*ThankYou, error) {
	return func(ctx context.Context, scope string, _ Entry) (*ThankYou, error) {
		var rec ThankYou
		if !r.storage.For(scope).Read(ctx, key, &rec) {
			return nil, errNoRecord
		}
		rec.Source = name
		return &rec, nil
	}
}

// fromCart rebuilds a record from the persisted cart when no order snapshot
// survived. Payment status cannot be known here.
func (r *Resolver) fromCart(ctx context.Context, scope string, _ Entry) (*ThankYou, error) {
	st := r.storage.For(scope)

	var rec cart.Record
	if !st.Read(ctx, storage.KeyCart, &rec) || len(rec.Items) == 0 {
		rec = r.carts.Get(scope).Record()
	}
	if len(rec.Items) == 0 {
		return nil, errNoRecord
	}

	var form ShippingForm
	st.Read(ctx, storage.KeyCheckoutForm, &form)

	subtotal := rec.Total
	if subtotal.IsZero() {
		for _, it := range rec.Items {
			subtotal = subtotal.Add(it.LineTotal())
		}
	}
	itemsPrice, shippingPrice, totalPrice := r.pricing.Totals(form.ShippingMethod, subtotal)
	return &ThankYou{
		Items:           orderItems(rec.Items),
		ShippingAddress: form.address(),
		ItemsPrice:      itemsPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      totalPrice,
		Currency:        r.pricing.Currency,
		PaymentStatus:   PaymentIndeterminate,
		Source:          SourceCart,
		Message:         "We received your order. Payment confirmation is still pending.",
		CreatedAt:       time.Now().UTC(),
	}, nil
}

func (r *Resolver) fallback(context.Context, string, Entry) (*ThankYou, error) {
	return &ThankYou{
		PaymentStatus: PaymentUnknown,
		Source:        SourceNone,
		Message:       "Your order was received. No further details are available.",
		CreatedAt:     time.Now().UTC(),
	}, nil
}

// consumeIntent clears the cart in memory and in both tiers when a
// submission left the intent flag behind. The thank-you snapshot is read
// once; later visits fall back to the recent order.
func (r *Resolver) consumeIntent(ctx context.Context, scope string, st *storage.Scoped) bool {
	if !st.Flag(ctx, storage.KeyClearCartIntent) {
		return false
	}
	r.carts.Get(scope).Clear(ctx)
	_ = st.Remove(ctx, storage.KeyClearCartIntent)
	_ = st.Remove(ctx, storage.KeyCart)
	_ = st.Remove(ctx, storage.KeyThankYou)
	return true
}

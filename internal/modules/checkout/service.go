package checkout

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/cart"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/orders"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/payments"
	"github.com/Le-Yoy/brendt-store-sub001/internal/shared/apperr"
	"github.com/Le-Yoy/brendt-store-sub001/internal/storage"
	"github.com/Le-Yoy/brendt-store-sub001/pkg/view"
)

const (
	NextConfirmation = "confirmation"
	NextRedirect     = "redirect"
)

const confirmationPath = "/checkout/confirmation"

// Carts resolves the live cart of a client. *cart.Registry implements it.
type Carts interface {
	Get(scope string) *cart.Store
}

type Deps struct {
	Carts    Carts
	Storage  *storage.Adapter
	Orders   orders.API
	Payments payments.Provider
	Pricing  Pricing
	BaseURL  string
	Logger   *slog.Logger
}

type Service struct {
	carts    Carts
	storage  *storage.Adapter
	orders   orders.API
	payments payments.Provider
	pricing  Pricing
	baseURL  string
	logger   *slog.Logger

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewService(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Service{
		carts:    d.Carts,
		storage:  d.Storage,
		orders:   d.Orders,
		payments: d.Payments,
		pricing:  d.Pricing,
		baseURL:  strings.TrimRight(d.BaseURL, "/"),
		logger:   d.Logger,
		inflight: make(map[string]struct{}),
	}
}

type SubmitInput struct {
	Scope string
	Form  Form
	Token string // forwarded to the order API when present
}

type SubmitResult struct {
	Next        string   `json:"next"`
	RedirectURL string   `json:"redirectUrl"`
	OrderID     string   `json:"orderId"`
	OrderNumber string   `json:"orderNumber,omitempty"`
	SessionID   string   `json:"sessionId,omitempty"`
	ThankYou    ThankYou `json:"thankYou"`
}

// Submit places one order for the client's cart. The order API is called at
// most once; nothing is retried. The cart is left intact: it is cleared only
// when the confirmation page resolves.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (SubmitResult, error) {
	if !s.acquire(in.Scope) {
		return SubmitResult{}, apperr.ConflictErr("Your order is already being placed.").WithErr(ErrInProgress)
	}
	defer s.release(in.Scope)

	store := s.carts.Get(in.Scope)
	if store.State().Empty() && !store.RestoreIfEmpty(ctx) {
		return SubmitResult{}, apperr.InvalidErr("Your cart is empty.", nil).WithErr(ErrCartEmpty)
	}

	form := in.Form.normalized()
	if fields := form.Validate(); fields != nil {
		return SubmitResult{}, apperr.InvalidErr("Please correct the highlighted fields.", fields)
	}

	st := s.storage.For(in.Scope)
	_ = st.Write(ctx, storage.KeyCheckoutForm, form.ShippingForm)
	if err := store.Persist(ctx); err != nil {
		s.logger.WarnContext(ctx, "cart persist before checkout failed", "client", in.Scope, "err", err)
	}

	state := store.State()
	itemsPrice, shippingPrice, totalPrice := s.pricing.Totals(form.ShippingMethod, state.Total)
	sub := orders.Submission{
		OrderItems:      orderItems(state.Items),
		ShippingAddress: form.address(),
		PaymentMethod:   form.PaymentMethod,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      totalPrice,
	}

	order, err := s.orders.Create(ctx, sub, in.Token)
	if err != nil {
		s.logger.ErrorContext(ctx, "order submission failed", "client", in.Scope, "err", err)
		return SubmitResult{}, orderSubmitError(err)
	}
	s.logger.InfoContext(ctx, "order created",
		"client", in.Scope, "order_id", order.ID, "order_number", order.OrderNumber,
		"payment_method", sub.PaymentMethod, "total", totalPrice.String())

	rec := s.submittedRecord(sub, order)
	s.remember(ctx, st, rec)
	_ = st.Write(ctx, storage.KeyClearCartIntent, true)

	res := SubmitResult{OrderID: order.ID, OrderNumber: order.OrderNumber, ThankYou: rec}
	if sub.PaymentMethod != orders.PaymentCard {
		res.Next = NextConfirmation
		res.RedirectURL = s.baseURL + confirmationPath
		return res, nil
	}

	sess, err := s.openSession(ctx, order.ID, sub.OrderItems, sub.ShippingAddress, sub.ShippingPrice, sub.TotalPrice)
	if err != nil {
		s.logger.ErrorContext(ctx, "payment session failed", "client", in.Scope, "order_id", order.ID, "err", err)
		return res, paymentError(order.ID, err)
	}
	res.Next = NextRedirect
	res.RedirectURL = sess.URL
	res.SessionID = sess.ID
	return res, nil
}

// RetryPayment opens a new payment session for an order this client already
// created. It never creates an order.
func (s *Service) RetryPayment(ctx context.Context, scope, orderID, token string) (SubmitResult, error) {
	if !s.acquire(scope) {
		return SubmitResult{}, apperr.ConflictErr("Your payment is already being started.").WithErr(ErrInProgress)
	}
	defer s.release(scope)

	st := s.storage.For(scope)
	if !ownsOrder(ctx, st, orderID) {
		return SubmitResult{}, apperr.NotFoundErr("Order not found.").WithErr(ErrOrderNotOwned)
	}

	order, err := s.orders.Get(ctx, orderID, token)
	if err != nil {
		s.logger.WarnContext(ctx, "order lookup for payment retry failed", "client", scope, "order_id", orderID, "err", err)
		return SubmitResult{}, orderLookupError(err)
	}
	if order.IsPaid {
		return SubmitResult{}, apperr.ConflictErr("This order is already paid.").WithErr(ErrAlreadyPaid)
	}
	if order.PaymentMethod != orders.PaymentCard {
		return SubmitResult{}, apperr.InvalidErr("This order is not paid by card.", nil).WithErr(ErrNotCardPayment)
	}

	res := SubmitResult{OrderID: order.ID, OrderNumber: order.OrderNumber, ThankYou: snapshotFromOrder(order, s.pricing.Currency)}
	sess, err := s.openSession(ctx, order.ID, order.OrderItems, order.ShippingAddress, order.ShippingPrice, order.TotalPrice)
	if err != nil {
		s.logger.ErrorContext(ctx, "payment session retry failed", "client", scope, "order_id", order.ID, "err", err)
		return res, paymentError(order.ID, err)
	}
	s.logger.InfoContext(ctx, "payment session reopened", "client", scope, "order_id", order.ID, "session_id", sess.ID)
	res.Next = NextRedirect
	res.RedirectURL = sess.URL
	res.SessionID = sess.ID
	return res, nil
}

// SaveForm caches shipping values so an interrupted checkout can resume.
func (s *Service) SaveForm(ctx context.Context, scope string, f ShippingForm) error {
	return s.storage.For(scope).Write(ctx, storage.KeyCheckoutForm, f.normalized())
}

func (s *Service) LoadForm(ctx context.Context, scope string) (ShippingForm, bool) {
	var f ShippingForm
	ok := s.storage.For(scope).Read(ctx, storage.KeyCheckoutForm, &f)
	return f, ok
}

// Summary prices the current cart for the given shipping method.
func (s *Service) Summary(ctx context.Context, scope, method string) view.CheckoutSummary {
	store := s.carts.Get(scope)
	store.RestoreIfEmpty(ctx)
	state := store.State()

	method = strings.ToLower(strings.TrimSpace(method))
	if method != ShippingExpress {
		method = ShippingStandard
	}
	itemsPrice, shippingPrice, totalPrice := s.pricing.Totals(method, state.Total)
	cur := s.pricing.Currency

	out := view.CheckoutSummary{
		Currency:      cur,
		Items:         state.ItemCount,
		ItemsPrice:    itemsPrice,
		ShippingPrice: shippingPrice,
		TotalPrice:    totalPrice,
		Subtotal:      view.Money(itemsPrice, cur),
		Shipping:      view.Money(shippingPrice, cur),
		Total:         view.Money(totalPrice, cur),
	}
	for _, opt := range []struct{ code, label string }{
		{ShippingStandard, "Standard delivery"},
		{ShippingExpress, "Express delivery"},
	} {
		price := s.pricing.Shipping(opt.code, itemsPrice)
		out.ShippingOptions = append(out.ShippingOptions, view.ShippingOption{
			Code:     opt.code,
			Label:    opt.label,
			Amount:   price,
			Price:    view.Money(price, cur),
			Selected: opt.code == method,
		})
	}
	if dc, amt, ok := s.pricing.Display(totalPrice); ok {
		out.DisplayCurrency = dc
		out.DisplayAmount = &amt
		out.DisplayTotal = view.Money(amt, dc)
	}
	return out
}

func (s *Service) openSession(ctx context.Context, orderID string, items []orders.Item, addr orders.ShippingAddress, shipping, total decimal.Decimal) (payments.Session, error) {
	lines := make([]payments.LineItem, 0, len(items)+1)
	for _, it := range items {
		lines = append(lines, payments.LineItem{
			Name:       it.Name,
			Quantity:   it.Quantity,
			UnitAmount: it.Price,
			Image:      it.Image,
		})
	}
	if shipping.IsPositive() {
		lines = append(lines, payments.LineItem{Name: "Shipping", Quantity: 1, UnitAmount: shipping})
	}

	sess, err := s.payments.CreateCheckoutSession(ctx, payments.CreateSessionRequest{
		OrderID:   orderID,
		Amount:    total,
		Currency:  s.pricing.Currency,
		LineItems: lines,
		Customer: payments.Customer{
			Name:  addr.FullName,
			Email: addr.Email,
			Phone: addr.Phone,
		},
		SuccessURL: s.successURL(),
		CancelURL:  s.cancelURL(orderID),
	})
	if err != nil {
		return payments.Session{}, err
	}
	if sess.URL == "" {
		return payments.Session{}, payments.ErrNoRedirectURL
	}
	return sess, nil
}

// submittedRecord prefers what was sent over what the API echoed back.
func (s *Service) submittedRecord(sub orders.Submission, o orders.Order) ThankYou {
	rec := snapshotFromOrder(o, s.pricing.Currency)
	rec.Items = sub.OrderItems
	rec.ShippingAddress = sub.ShippingAddress
	rec.PaymentMethod = sub.PaymentMethod
	rec.ItemsPrice = sub.ItemsPrice
	rec.ShippingPrice = sub.ShippingPrice
	rec.TotalPrice = sub.TotalPrice
	if !o.IsPaid && sub.PaymentMethod == orders.PaymentCard {
		rec.PaymentStatus = PaymentPending
	}
	return rec
}

func (s *Service) remember(ctx context.Context, st *storage.Scoped, rec ThankYou) {
	_ = st.Write(ctx, storage.KeyThankYou, rec)
	_ = st.Write(ctx, storage.KeyRecentOrder, rec)
}

// ownsOrder reports whether the client's own snapshot or recent order names
// orderID.
func ownsOrder(ctx context.Context, st *storage.Scoped, orderID string) bool {
	if orderID == "" {
		return false
	}
	for _, key := range []string{storage.KeyThankYou, storage.KeyRecentOrder} {
		var rec ThankYou
		if st.Read(ctx, key, &rec) && rec.OrderID == orderID {
			return true
		}
	}
	return false
}

func (s *Service) acquire(scope string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[scope]; busy {
		return false
	}
	s.inflight[scope] = struct{}{}
	return true
}

func (s *Service) release(scope string) {
	s.mu.Lock()
	delete(s.inflight, scope)
	s.mu.Unlock()
}

func (s *Service) successURL() string {
	return s.baseURL + confirmationPath + "?session_id={CHECKOUT_SESSION_ID}"
}

func (s *Service) cancelURL(orderID string) string {
	q := url.Values{"canceled": {"1"}, "order_id": {orderID}}
	return s.baseURL + confirmationPath + "?" + q.Encode()
}

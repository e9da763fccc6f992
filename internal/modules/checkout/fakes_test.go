package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/cart"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/orders"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/payments"
	"github.com/Le-Yoy/brendt-store-sub001/internal/shared/httpjson"
	"github.com/Le-Yoy/brendt-store-sub001/internal/storage"
)

type fakeOrders struct {
	mu          sync.Mutex
	createCalls int
	getCalls    int
	submissions []orders.Submission
	tokens      []string
	createErr   error
	getErr      error
	byID        map[string]orders.Order

	// when set, Create signals entered and waits for release
	entered chan struct{}
	release chan struct{}
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byID: map[string]orders.Order{}}
}

func (f *fakeOrders) Create(ctx context.Context, sub orders.Submission, token string) (orders.Order, error) {
	f.mu.Lock()
	f.createCalls++
	n := f.createCalls
	f.submissions = append(f.submissions, sub)
	f.tokens = append(f.tokens, token)
	err := f.createErr
	entered, release := f.entered, f.release
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
		<-release
	}
	if err != nil {
		return orders.Order{}, err
	}

	o := orders.Order{
		ID:              fmt.Sprintf("ord-%d", n),
		OrderNumber:     fmt.Sprintf("BR-261016-%04d", n),
		OrderItems:      sub.OrderItems,
		ShippingAddress: sub.ShippingAddress,
		PaymentMethod:   sub.PaymentMethod,
		ItemsPrice:      sub.ItemsPrice,
		ShippingPrice:   sub.ShippingPrice,
		TotalPrice:      sub.TotalPrice,
		Status:          "created",
		CreatedAt:       time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC),
	}
	f.mu.Lock()
	f.byID[o.ID] = o
	f.mu.Unlock()
	return o, nil
}

func (f *fakeOrders) Get(ctx context.Context, id string, token string) (orders.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return orders.Order{}, f.getErr
	}
	o, ok := f.byID[id]
	if !ok {
		return orders.Order{}, &httpjson.APIError{Op: "get order", StatusCode: http.StatusNotFound}
	}
	return o, nil
}

func (f *fakeOrders) markPaid(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.byID[id]
	now := time.Date(2026, 10, 16, 10, 5, 0, 0, time.UTC)
	o.IsPaid = true
	o.PaidAt = &now
	f.byID[id] = o
}

func (f *fakeOrders) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls
}

type fakePayments struct {
	mu          sync.Mutex
	requests    []payments.CreateSessionRequest
	createErr   error
	verifyErr   error
	verifyPanic bool
	sessions    map[string]payments.SessionStatus
}

func newFakePayments() *fakePayments {
	return &fakePayments{sessions: map[string]payments.SessionStatus{}}
}

func (f *fakePayments) Name() string { return "fake" }

func (f *fakePayments) CreateCheckoutSession(ctx context.Context, req payments.CreateSessionRequest) (payments.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.createErr != nil {
		return payments.Session{}, f.createErr
	}
	id := fmt.Sprintf("cs_%d", len(f.requests))
	f.sessions[id] = payments.SessionStatus{
		ID:            id,
		Status:        payments.SessionOpen,
		PaymentStatus: payments.StatusUnpaid,
		AmountTotal:   req.Amount,
		Currency:      req.Currency,
		Metadata:      map[string]string{"orderId": req.OrderID},
	}
	return payments.Session{ID: id, URL: "https://pay.test/session/" + id}, nil
}

func (f *fakePayments) VerifySession(ctx context.Context, id string) (payments.SessionStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.verifyPanic {
		panic("provider client blew up")
	}
	if f.verifyErr != nil {
		return payments.SessionStatus{}, f.verifyErr
	}
	s, ok := f.sessions[id]
	if !ok {
		return payments.SessionStatus{}, errors.New("no such session")
	}
	return s, nil
}

func (f *fakePayments) pay(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.sessions[id]
	paidAt := time.Date(2026, 10, 16, 10, 6, 0, 0, time.UTC)
	s.Status = payments.SessionComplete
	s.PaymentStatus = payments.StatusPaid
	s.PaidAt = &paidAt
	f.sessions[id] = s
}

const client = "client-1"

type fixture struct {
	session  *storage.SessionTier
	durable  *storage.SessionTier
	adapter  *storage.Adapter
	carts    *cart.Registry
	orders   *fakeOrders
	payments *fakePayments
	svc      *Service
	resolver *Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &fixture{
		session:  storage.NewSessionTier(100, time.Minute),
		durable:  storage.NewSessionTier(100, time.Hour),
		orders:   newFakeOrders(),
		payments: newFakePayments(),
	}
	f.adapter = storage.NewAdapter(f.session, f.durable, logger)
	f.carts = cart.NewRegistry(f.adapter, 10, time.Hour, logger)
	deps := Deps{
		Carts:    f.carts,
		Storage:  f.adapter,
		Orders:   f.orders,
		Payments: f.payments,
		Pricing:  testPricing(),
		BaseURL:  "https://shop.test/",
		Logger:   logger,
	}
	f.svc = NewService(deps)
	f.resolver = NewResolver(deps)
	return f
}

func testPricing() Pricing {
	return Pricing{
		Currency: "MAD",
		Standard: decimal.NewFromInt(30),
		Express:  decimal.NewFromInt(60),
	}
}

// fillCart puts 2 x 100 + 1 x 50 in the client's cart.
func (f *fixture) fillCart(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	store := f.carts.Get(client)
	require.NoError(t, store.AddOrIncrement(ctx, cart.Item{
		ProductID: "P1", Name: "Derby", Price: decimal.NewFromInt(100), Quantity: 2, Size: "42", Color: "black",
	}))
	require.NoError(t, store.AddOrIncrement(ctx, cart.Item{
		ProductID: "P2", Name: "Belt", Price: decimal.NewFromInt(50), Quantity: 1, Color: "brown",
	}))
}

// inBoth reports whether key is present in the session and durable tiers.
func (f *fixture) inBoth(t *testing.T, key string) (bool, bool) {
	t.Helper()
	ctx := context.Background()
	_, inSession, err := f.session.Get(ctx, client, key)
	require.NoError(t, err)
	_, inDurable, err := f.durable.Get(ctx, client, key)
	require.NoError(t, err)
	return inSession, inDurable
}

func validForm(method string) Form {
	return Form{
		ShippingForm: ShippingForm{
			FullName: "Amina El Idrissi",
			Email:    "Amina@Example.com",
			Phone:    "06 12 34 56 78",
			Address:  "12 Rue Atlas",
			City:     "Casablanca",
			Country:  "MA",
		},
		PaymentMethod: method,
	}
}

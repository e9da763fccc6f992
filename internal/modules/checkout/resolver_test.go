package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Le-Yoy/brendt-store-sub001/internal/storage"
)

func submit(t *testing.T, f *fixture, method string) SubmitResult {
	t.Helper()
	f.fillCart(t)
	res, err := f.svc.Submit(context.Background(), SubmitInput{Scope: client, Form: validForm(method)})
	require.NoError(t, err)
	return res
}

func TestResolveCanceledLeavesEverything(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	submit(t, f, "card")

	out := f.resolver.Resolve(ctx, client, Entry{Canceled: true})
	assert.Equal(t, StateCanceled, out.State)
	require.NotNil(t, out.Record)
	assert.Equal(t, "ord-1", out.Record.OrderID)
	assert.False(t, out.CartCleared)

	assert.Equal(t, 3, f.carts.Get(client).State().ItemCount)
	s, d := f.inBoth(t, storage.KeyCart)
	assert.True(t, s && d)
	assert.True(t, f.adapter.For(client).Flag(ctx, storage.KeyClearCartIntent))
}

func TestResolveCanceledWithoutSnapshot(t *testing.T) {
	f := newFixture(t)
	out := f.resolver.Resolve(context.Background(), client, Entry{Canceled: true})
	assert.Equal(t, StateCanceled, out.State)
	assert.Nil(t, out.Record)
}

func TestResolveCashConfirmationClearsCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	submit(t, f, "cash")

	out := f.resolver.Resolve(ctx, client, Entry{})
	assert.Equal(t, StateConfirmed, out.State)
	assert.Equal(t, SourceSnapshot, out.Source)
	require.NotNil(t, out.Record)
	assert.Equal(t, "BR-261016-0001", out.Record.OrderNumber)
	assert.True(t, out.CartCleared)

	assert.True(t, f.carts.Get(client).State().Empty())
	for _, key := range []string{storage.KeyCart, storage.KeyClearCartIntent, storage.KeyThankYou} {
		s, d := f.inBoth(t, key)
		assert.False(t, s || d, key)
	}

	// the snapshot is read once; a second visit shows the recent order
	again := f.resolver.Resolve(ctx, client, Entry{})
	assert.Equal(t, SourceRecentOrder, again.Source)
	require.NotNil(t, again.Record)
	assert.Equal(t, "BR-261016-0001", again.Record.OrderNumber)
	assert.False(t, again.CartCleared)
}

func TestResolvePaidSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	res := submit(t, f, "card")
	f.payments.pay(res.SessionID)
	f.orders.markPaid(res.OrderID)

	out := f.resolver.Resolve(ctx, client, Entry{SessionID: res.SessionID, Token: "tok"})
	assert.Equal(t, SourcePaymentSession, out.Source)
	require.NotNil(t, out.Record)
	assert.True(t, out.Record.IsPaid)
	assert.Equal(t, PaymentPaid, out.Record.PaymentStatus)
	require.NotNil(t, out.Record.PaidAt)
	require.NotNil(t, out.Record.PaidAmount)
	assert.True(t, decimal.NewFromInt(280).Equal(*out.Record.PaidAmount))
	assert.True(t, out.CartCleared)

	var snap ThankYou
	require.True(t, f.adapter.For(client).Read(ctx, storage.KeyThankYou, &snap))
	assert.True(t, snap.IsPaid)
	assert.Equal(t, SourcePaymentSession, snap.Source)
	var recent ThankYou
	require.True(t, f.adapter.For(client).Read(ctx, storage.KeyRecentOrder, &recent))
	assert.True(t, recent.IsPaid)
}

func TestResolveSessionOfAnotherClient(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	res := submit(t, f, "card")
	f.payments.pay(res.SessionID)
	f.orders.markPaid(res.OrderID)

	const other = "client-2"
	out := f.resolver.Resolve(ctx, other, Entry{SessionID: res.SessionID})
	assert.Equal(t, StateConfirmed, out.State)
	assert.Equal(t, SourceNone, out.Source)
	require.NotNil(t, out.Record)
	assert.Empty(t, out.Record.OrderID)
	assert.Empty(t, out.Record.ShippingAddress.FullName)

	st := f.adapter.For(other)
	var rec ThankYou
	assert.False(t, st.Read(ctx, storage.KeyThankYou, &rec))
	assert.False(t, st.Read(ctx, storage.KeyRecentOrder, &rec))

	_, err := f.svc.RetryPayment(ctx, other, res.OrderID, "")
	assert.ErrorIs(t, err, ErrOrderNotOwned)

	// the owner still resolves through the payment session
	mine := f.resolver.Resolve(ctx, client, Entry{SessionID: res.SessionID})
	assert.Equal(t, SourcePaymentSession, mine.Source)
	assert.True(t, mine.Record.IsPaid)
}

func TestResolveUnpaidSessionIsPending(t *testing.T) {
	f := newFixture(t)
	res := submit(t, f, "card")

	out := f.resolver.Resolve(context.Background(), client, Entry{SessionID: res.SessionID})
	assert.Equal(t, SourcePaymentSession, out.Source)
	assert.False(t, out.Record.IsPaid)
	assert.Equal(t, PaymentPending, out.Record.PaymentStatus)
}

func TestResolveSessionFailureFallsThrough(t *testing.T) {
	cases := []struct {
		name  string
		setup func(f *fixture)
	}{
		{"verify error", func(f *fixture) { f.payments.verifyErr = errors.New("provider down") }},
		{"verify panic", func(f *fixture) { f.payments.verifyPanic = true }},
		{"order lookup error", func(f *fixture) { f.orders.getErr = errors.New("order api down") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			res := submit(t, f, "card")
			tc.setup(f)

			out := f.resolver.Resolve(context.Background(), client, Entry{SessionID: res.SessionID})
			assert.Equal(t, StateConfirmed, out.State)
			assert.Equal(t, SourceSnapshot, out.Source)
			assert.Equal(t, "ord-1", out.Record.OrderID)
			assert.True(t, out.CartCleared)
		})
	}
}

func TestResolveFromCartWhenSnapshotLost(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	submit(t, f, "cash")
	st := f.adapter.For(client)
	require.NoError(t, st.Remove(ctx, storage.KeyThankYou))
	require.NoError(t, st.Remove(ctx, storage.KeyRecentOrder))

	out := f.resolver.Resolve(ctx, client, Entry{})
	assert.Equal(t, SourceCart, out.Source)
	require.NotNil(t, out.Record)
	assert.Equal(t, PaymentIndeterminate, out.Record.PaymentStatus)
	assert.Len(t, out.Record.Items, 2)
	assert.True(t, decimal.NewFromInt(280).Equal(out.Record.TotalPrice))
	assert.Equal(t, "Casablanca", out.Record.ShippingAddress.City)
	assert.True(t, out.CartCleared)
	assert.True(t, f.carts.Get(client).State().Empty())
}

func TestResolveFromInMemoryCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.fillCart(t)
	require.NoError(t, f.adapter.For(client).Remove(ctx, storage.KeyCart))

	out := f.resolver.Resolve(ctx, client, Entry{})
	assert.Equal(t, SourceCart, out.Source)
	assert.Len(t, out.Record.Items, 2)
	assert.False(t, out.CartCleared, "no intent, nothing to clear")
	assert.Equal(t, 3, f.carts.Get(client).State().ItemCount)
}

func TestResolveFromRecentOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	require.NoError(t, f.adapter.For(client).Write(ctx, storage.KeyRecentOrder, ThankYou{
		OrderID:       "ord-9",
		PaymentStatus: PaymentPaid,
		IsPaid:        true,
	}))

	out := f.resolver.Resolve(ctx, client, Entry{})
	assert.Equal(t, SourceRecentOrder, out.Source)
	assert.Equal(t, "ord-9", out.Record.OrderID)
}

func TestResolveWithNothingKnown(t *testing.T) {
	f := newFixture(t)

	out := f.resolver.Resolve(context.Background(), client, Entry{SessionID: "cs_unknown"})
	assert.Equal(t, StateConfirmed, out.State)
	assert.Equal(t, SourceNone, out.Source)
	require.NotNil(t, out.Record)
	assert.Equal(t, PaymentUnknown, out.Record.PaymentStatus)
	assert.NotEmpty(t, out.Record.Message)
	assert.False(t, out.CartCleared)
}

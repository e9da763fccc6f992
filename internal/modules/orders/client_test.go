package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Le-Yoy/brendt-store-sub001/internal/shared/httpjson"
)

func TestClientCreate(t *testing.T) {
	var got Submission
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"), "guest checkout sends no token")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"o-1","orderNumber":"BR-1","totalPrice":"1030"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", srv.Client())
	o, err := c.Create(context.Background(), Submission{
		OrderItems:    []Item{{ProductID: "P1", Quantity: 2, Price: decimal.NewFromInt(500)}},
		PaymentMethod: PaymentCash,
		ItemsPrice:    decimal.NewFromInt(1000),
		ShippingPrice: decimal.NewFromInt(30),
		TotalPrice:    decimal.NewFromInt(1030),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, "o-1", o.ID)
	assert.Equal(t, "BR-1", o.OrderNumber)
	assert.Equal(t, "1030", got.TotalPrice.String())
	assert.Equal(t, PaymentCash, got.PaymentMethod)
}

func TestClientCreateRejectsEmpty(t *testing.T) {
	_, err := NewClient("http://unused", nil).Create(context.Background(), Submission{}, "")
	assert.ErrorIs(t, err, ErrEmptySubmission)
}

func TestClientGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders/o%2F1", r.URL.EscapedPath())
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		http.Error(w, `{"message":"order not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, srv.Client()).Get(context.Background(), "o/1", "t")
	ae, ok := httpjson.AsAPIError(err)
	require.True(t, ok)
	assert.True(t, ae.NotFound())
	assert.Equal(t, "order not found", ae.Message)
}

package orders

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Le-Yoy/brendt-store-sub001/internal/shared/httpjson"
)

// API is the order-management service as seen by checkout.
type API interface {
	Create(ctx context.Context, sub Submission, token string) (Order, error)
	Get(ctx context.Context, id string, token string) (Order, error)
}

// Client talks to the order REST API. It sends each request exactly once.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// Create submits POST /orders. token may be empty for guest checkout.
func (c *Client) Create(ctx context.Context, sub Submission, token string) (Order, error) {
	if len(sub.OrderItems) == 0 {
		return Order{}, ErrEmptySubmission
	}
	var out Order
	err := httpjson.Do(ctx, c.http, httpjson.Request{
		Op:     "create order",
		Method: http.MethodPost,
		URL:    c.baseURL + "/orders",
		Token:  token,
		In:     sub,
		Out:    &out,
	})
	if err != nil {
		return Order{}, err
	}
	if out.ID == "" {
		return Order{}, ErrNoOrderID
	}
	return out, nil
}

// Get fetches GET /orders/{id}.
func (c *Client) Get(ctx context.Context, id string, token string) (Order, error) {
	if strings.TrimSpace(id) == "" {
		return Order{}, ErrMissingID
	}
	var out Order
	err := httpjson.Do(ctx, c.http, httpjson.Request{
		Op:     "get order",
		Method: http.MethodGet,
		URL:    c.baseURL + "/orders/" + url.PathEscape(id),
		Token:  token,
		Out:    &out,
	})
	if err != nil {
		return Order{}, err
	}
	return out, nil
}

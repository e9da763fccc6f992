package payments

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/Le-Yoy/brendt-store-sub001/internal/shared/httpjson"
)

// HTTPProvider calls the payment provider's REST endpoints. Session creation
// is sent once; a failure is returned to the caller for a manual retry.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewHTTPProvider(baseURL, apiKey string, hc *http.Client) *HTTPProvider {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPProvider{baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey, http: hc}
}

func (p *HTTPProvider) Name() string { return "hosted" }

func (p *HTTPProvider) CreateCheckoutSession(ctx context.Context, req CreateSessionRequest) (Session, error) {
	if req.OrderID == "" {
		return Session{}, ErrMissingOrder
	}
	var out Session
	err := httpjson.Do(ctx, p.http, httpjson.Request{
		Op:     "create checkout session",
		Method: http.MethodPost,
		URL:    p.baseURL + "/payments/create-checkout-session",
		Token:  p.apiKey,
		In:     req,
		Out:    &out,
	})
	if err != nil {
		return Session{}, err
	}
	if out.URL == "" {
		return Session{}, ErrNoRedirectURL
	}
	return out, nil
}

func (p *HTTPProvider) VerifySession(ctx context.Context, sessionID string) (SessionStatus, error) {
	if strings.TrimSpace(sessionID) == "" {
		return SessionStatus{}, ErrMissingSession
	}
	var out SessionStatus
	err := httpjson.Do(ctx, p.http, httpjson.Request{
		Op:     "verify session",
		Method: http.MethodGet,
		URL:    p.baseURL + "/payments/verify-session?session_id=" + url.QueryEscape(sessionID),
		Token:  p.apiKey,
		Out:    &out,
	})
	if err != nil {
		return SessionStatus{}, err
	}
	return out, nil
}

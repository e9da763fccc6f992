package payments

import "errors"

var (
	ErrMissingSession = errors.New("payments: missing session id")
	ErrNoRedirectURL  = errors.New("payments: session has no redirect url")
	ErrMissingOrder   = errors.New("payments: session request without order id")
)

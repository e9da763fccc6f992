package orders

import "errors"

var (
	ErrMissingID       = errors.New("orders: missing order id")
	ErrNoOrderID       = errors.New("orders: created order has no id")
	ErrEmptySubmission = errors.New("orders: submission has no items")
)

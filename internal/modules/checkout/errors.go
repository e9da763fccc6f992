package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/Le-Yoy/brendt-store-sub001/internal/shared/apperr"
	"github.com/Le-Yoy/brendt-store-sub001/internal/shared/httpjson"
)

var (
	ErrCartEmpty      = errors.New("checkout: cart is empty")
	ErrInProgress     = errors.New("checkout: submission already in progress")
	ErrOrderNotOwned  = errors.New("checkout: order not found for this client")
	ErrAlreadyPaid    = errors.New("checkout: order already paid")
	ErrNotCardPayment = errors.New("checkout: order is not paid by card")
)

// PaymentSessionError means the order exists but no payment session could
// be opened for it. Retrying must reuse OrderID.
type PaymentSessionError struct {
	OrderID string
	Err     error
}

func (e *PaymentSessionError) Error() string {
	return fmt.Sprintf("payment session for order %s: %v", e.OrderID, e.Err)
}

func (e *PaymentSessionError) Unwrap() error { return e.Err }

func orderSubmitError(err error) *apperr.AppError {
	if ae, ok := httpjson.AsAPIError(err); ok {
		if ae.Unauthenticated() {
			return apperr.UnauthorizedErr("Your session has expired. Please sign in again to place your order.").WithErr(err)
		}
		if ae.Unavailable() {
			return apperr.UnavailableErr("The order service is unavailable right now. Your cart is saved, please try again.").WithErr(err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.UnavailableErr("The order service is unavailable right now. Your cart is saved, please try again.").WithErr(err)
	}
	return &apperr.AppError{
		Kind:      apperr.Internal,
		PublicMsg: "We could not place your order. Your cart is saved, please try again.",
		Err:       err,
	}
}

func orderLookupError(err error) *apperr.AppError {
	if ae, ok := httpjson.AsAPIError(err); ok {
		switch {
		case ae.NotFound():
			return apperr.NotFoundErr("Order not found.").WithErr(err)
		case ae.Unauthenticated():
			return apperr.UnauthorizedErr("Please sign in to continue with this order.").WithErr(err)
		case ae.Unavailable():
			return apperr.UnavailableErr("The order service is unavailable right now. Please try again.").WithErr(err)
		}
	}
	return apperr.Wrap(err)
}

func paymentError(orderID string, err error) *apperr.AppError {
	return apperr.PaymentFailedErr(
		"Your order was created but the payment could not be started. Please retry the payment.",
		map[string]string{"orderId": orderID},
	).WithErr(&PaymentSessionError{OrderID: orderID, Err: err})
}

package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Le-Yoy/brendt-store-sub001/internal/http/middleware"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/cart"
	"github.com/Le-Yoy/brendt-store-sub001/internal/shared/apperr"
	"github.com/Le-Yoy/brendt-store-sub001/internal/shared/validation"
)

// bindJSON decodes the body into dst and reports bind failures as a 400.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.Fail(c, apperr.InvalidErr("Please correct the highlighted fields.", validation.FromError(err)).WithErr(err))
		return false
	}
	return true
}

func cartError(err error) error {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		return apperr.InvalidErr("Quantity must be between 1 and 99.", map[string]string{"quantity": "Must be between 1 and 99."}).WithErr(err)
	case errors.Is(err, cart.ErrInvalidPrice):
		return apperr.InvalidErr("Price must not be negative.", map[string]string{"price": "Must be 0 or more."}).WithErr(err)
	case errors.Is(err, cart.ErrMissingProduct):
		return apperr.InvalidErr("Product is required.", map[string]string{"productId": "This field is required."}).WithErr(err)
	}
	return apperr.Wrap(err)
}

// bearerToken is forwarded to the order API as-is.
func bearerToken(c *gin.Context) string {
	tok, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(tok)
}

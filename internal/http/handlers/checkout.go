package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Le-Yoy/brendt-store-sub001/internal/http/middleware"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/cart"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/checkout"
)

type CheckoutHandler struct {
	Svc      *checkout.Service
	Resolver *checkout.Resolver
	Carts    *cart.Registry
}

func NewCheckoutHandler(svc *checkout.Service, resolver *checkout.Resolver, carts *cart.Registry) *CheckoutHandler {
	return &CheckoutHandler{Svc: svc, Resolver: resolver, Carts: carts}
}

// GetForm handles GET /api/checkout/form.
func (h *CheckoutHandler) GetForm(c *gin.Context) {
	form, ok := h.Svc.LoadForm(c.Request.Context(), middleware.GetClientID(c))
	c.JSON(http.StatusOK, gin.H{"form": form, "saved": ok})
}

// PutForm handles PUT /api/checkout/form. Values are cached as typed, without
// validation; Submit validates.
func (h *CheckoutHandler) PutForm(c *gin.Context) {
	var in checkout.ShippingForm
	if !bindJSON(c, &in) {
		return
	}
	if err := h.Svc.SaveForm(c.Request.Context(), middleware.GetClientID(c), in); err != nil {
		middleware.Fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary handles GET /api/checkout/summary?shippingMethod=.
func (h *CheckoutHandler) Summary(c *gin.Context) {
	sum := h.Svc.Summary(c.Request.Context(), middleware.GetClientID(c), c.Query("shippingMethod"))
	middleware.SetCartCount(c, sum.Items)
	c.JSON(http.StatusOK, sum)
}

// Submit handles POST /api/checkout.
func (h *CheckoutHandler) Submit(c *gin.Context) {
	var in checkout.Form
	if !bindJSON(c, &in) {
		return
	}
	res, err := h.Svc.Submit(c.Request.Context(), checkout.SubmitInput{
		Scope: middleware.GetClientID(c),
		Form:  in,
		Token: bearerToken(c),
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// RetryPayment handles POST /api/checkout/orders/:id/retry-payment.
func (h *CheckoutHandler) RetryPayment(c *gin.Context) {
	res, err := h.Svc.RetryPayment(c.Request.Context(), middleware.GetClientID(c), c.Param("id"), bearerToken(c))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Confirmation handles GET /api/checkout/confirmation. The provider sends
// shoppers back with ?session_id= on success and ?canceled=1 on cancel.
func (h *CheckoutHandler) Confirmation(c *gin.Context) {
	scope := middleware.GetClientID(c)
	out := h.Resolver.Resolve(c.Request.Context(), scope, checkout.Entry{
		Canceled:  c.Query("canceled") == "1" || c.Query("canceled") == "true",
		SessionID: c.Query("session_id"),
		Token:     bearerToken(c),
	})
	middleware.SetCartCount(c, h.Carts.ItemCount(scope))
	c.JSON(http.StatusOK, out)
}

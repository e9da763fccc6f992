package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Le-Yoy/brendt-store-sub001/internal/http/clientcookie"
	"github.com/Le-Yoy/brendt-store-sub001/internal/http/handlers"
	"github.com/Le-Yoy/brendt-store-sub001/internal/http/middleware"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/cart"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/checkout"
)

type Deps struct {
	Logger   *slog.Logger
	Cookies  *clientcookie.Codec
	Carts    *cart.Registry
	Checkout *checkout.Service
	Resolver *checkout.Resolver
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(d.Logger),
		middleware.ErrorHandler(d.Logger),
		middleware.Recovery(d.Logger),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api",
		middleware.ClientIdentity(d.Cookies),
		middleware.CartCount(d.Carts),
	)

	cartH := handlers.NewCartHandler(d.Carts)
	api.GET("/cart", cartH.Get)
	api.DELETE("/cart", cartH.Clear)
	api.POST("/cart/items", cartH.Add)
	api.PATCH("/cart/items", cartH.Update)
	api.DELETE("/cart/items", cartH.Remove)

	co := handlers.NewCheckoutHandler(d.Checkout, d.Resolver, d.Carts)
	api.GET("/checkout/form", co.GetForm)
	api.PUT("/checkout/form", co.PutForm)
	api.GET("/checkout/summary", co.Summary)
	api.POST("/checkout", co.Submit)
	api.POST("/checkout/orders/:id/retry-payment", co.RetryPayment)
	api.GET("/checkout/confirmation", co.Confirmation)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found.", "request_id": middleware.GetRequestID(c)})
	})
	return r
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Le-Yoy/brendt-store-sub001/internal/http/middleware"
	"github.com/Le-Yoy/brendt-store-sub001/internal/modules/cart"
)

// CartHandler exposes the cart verbs under /api/cart.
type CartHandler struct {
	Carts *cart.Registry
}

func NewCartHandler(carts *cart.Registry) *CartHandler {
	return &CartHandler{Carts: carts}
}

type addItemInput struct {
	ProductID string          `json:"productId" binding:"required,max=64"`
	Name      string          `json:"name" binding:"required,max=200"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" binding:"omitempty,gte=1,lte=99"`
	Size      string          `json:"size" binding:"max=32"`
	Color     string          `json:"color" binding:"max=32"`
	ColorCode string          `json:"colorCode" binding:"max=16"`
	Image     string          `json:"image" binding:"max=512"`
}

type lineInput struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type updateItemInput struct {
	lineInput
	Quantity int `json:"quantity" binding:"gte=1,lte=99"`
}

// Get handles GET /api/cart. An empty in-memory cart is restored from storage.
func (h *CartHandler) Get(c *gin.Context) {
	store := h.Carts.Get(middleware.GetClientID(c))
	store.RestoreIfEmpty(c.Request.Context())
	h.respond(c, store)
}

// Add handles POST /api/cart/items.
func (h *CartHandler) Add(c *gin.Context) {
	var in addItemInput
	if !bindJSON(c, &in) {
		return
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}

	store := h.Carts.Get(middleware.GetClientID(c))
	store.RestoreIfEmpty(c.Request.Context())
	err := store.AddOrIncrement(c.Request.Context(), cart.Item{
		ProductID: in.ProductID,
		Name:      in.Name,
		Price:     in.Price,
		Quantity:  in.Quantity,
		Size:      in.Size,
		Color:     in.Color,
		ColorCode: in.ColorCode,
		Image:     in.Image,
	})
	if err != nil {
		middleware.Fail(c, cartError(err))
		return
	}
	h.respond(c, store)
}

// Update handles PATCH /api/cart/items.
func (h *CartHandler) Update(c *gin.Context) {
	var in updateItemInput
	if !bindJSON(c, &in) {
		return
	}
	store := h.Carts.Get(middleware.GetClientID(c))
	store.RestoreIfEmpty(c.Request.Context())
	if err := store.UpdateQuantity(c.Request.Context(), in.ProductID, in.Size, in.Color, in.Quantity); err != nil {
		middleware.Fail(c, cartError(err))
		return
	}
	h.respond(c, store)
}

// Remove handles DELETE /api/cart/items.
func (h *CartHandler) Remove(c *gin.Context) {
	var in lineInput
	if !bindJSON(c, &in) {
		return
	}
	store := h.Carts.Get(middleware.GetClientID(c))
	store.RestoreIfEmpty(c.Request.Context())
	store.RemoveItem(c.Request.Context(), in.ProductID, in.Size, in.Color)
	h.respond(c, store)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	store := h.Carts.Get(middleware.GetClientID(c))
	store.Clear(c.Request.Context())
	h.respond(c, store)
}

func (h *CartHandler) respond(c *gin.Context, store *cart.Store) {
	st := store.State()
	middleware.SetCartCount(c, st.ItemCount)
	c.JSON(http.StatusOK, st)
}

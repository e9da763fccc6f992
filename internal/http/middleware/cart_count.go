package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const HeaderCartCount = "X-Cart-Count"

// CartCounter reports the live item count for a client without creating a cart.
type CartCounter interface {
	ItemCount(scope string) int
}

// CartCount sets X-Cart-Count from the cart as it was before the handler ran.
// Handlers that change the cart overwrite it with SetCartCount.
func CartCount(carts CartCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := GetClientID(c); id != "" {
			SetCartCount(c, carts.ItemCount(id))
		}
		c.Next()
	}
}

func SetCartCount(c *gin.Context, n int) {
	c.Header(HeaderCartCount, strconv.Itoa(n))
}

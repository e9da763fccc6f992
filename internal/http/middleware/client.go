package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/Le-Yoy/brendt-store-sub001/internal/http/clientcookie"
)

const ctxKeyClientID = "client_id"

// ClientIdentity resolves the shopper's client id from the signed cookie,
// issuing a fresh one when needed.
func ClientIdentity(codec *clientcookie.Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := codec.Ensure(c)
		c.Set(ctxKeyClientID, id)
		c.Next()
	}
}

func GetClientID(c *gin.Context) string {
	return c.GetString(ctxKeyClientID)
}

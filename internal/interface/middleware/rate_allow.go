package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/digital-legacy/pkg/response"
)

// AllowPrivateIP reports whether the client is on loopback or a private network.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// OnlyIf rejects requests with 403 unless allow returns true.
func OnlyIf(allow AllowFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allow == nil || !allow(c) {
			response.Error[any](c, http.StatusForbidden, "forbidden", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

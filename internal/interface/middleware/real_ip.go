package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxRealIPKey holds the client address used for rate limiting and the private-network guard.
const CtxRealIPKey = "real_ip"

// RealIP stores the client IP under CtxRealIPKey.
// Forwarding headers are only honoured when trustProxy is set.
// Order when trusted: CF-Connecting-IP, then left-most X-Forwarded-For.
func RealIP(trustProxy bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if trustProxy {
			if ip := forwardedIP(c); ip != "" {
				c.Set(CtxRealIPKey, ip)
				c.Next()
				return
			}
		}
		c.Set(CtxRealIPKey, c.RemoteIP())
		c.Next()
	}
}

func forwardedIP(c *gin.Context) string {
	if cf := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); cf != "" {
		if ip := net.ParseIP(cf); ip != nil {
			return ip.String()
		}
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return ""
}

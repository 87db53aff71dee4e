package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP resolves the client IP behind proxies and stores it under "real_ip".
// CF-Connecting-IP wins over X-Forwarded-For (left-most entry); anything
// unparseable falls back to c.ClientIP(). Rate limit keys and password-reset
// audit metadata both read this value.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if ip := firstValidIP(c.GetHeader("CF-Connecting-IP")); ip != "" {
			c.Set("real_ip", ip)
			c.Next()
			return
		}
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			parts := strings.SplitN(xff, ",", 2)
			if ip := firstValidIP(parts[0]); ip != "" {
				c.Set("real_ip", ip)
				c.Next()
				return
			}
		}
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}

func firstValidIP(s string) string {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return ""
	}
	return ip.String()
}

package middleware

import (
	"net/http"
	"time"

	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	"storefront-checkout/internal/pkg/logger"
	"storefront-checkout/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

func CorsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			origin = "*"
		}
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestInit injects the "send" writer every handler responds through.
func RequestInit() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("send", func(r *types.Response) {
			r = helper.ParseResponse(r)
			c.AbortWithStatusJSON(r.Code, helper.ToResponseAPI(r))
		})
		c.Next()
	}
}

// ResponseInit logs each request once it has been served and records it in m.
func ResponseInit(m *metrics.ServerMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Observe(route, c.Request.Method, c.Writer.Status(), elapsed)

		logger.HTTP.Printf("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), elapsed)
	}
}

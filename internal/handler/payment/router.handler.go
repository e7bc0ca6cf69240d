package payment

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup, auth gin.HandlerFunc) {
	payments := e.Group("/v1/payments")

	// Midtrans calls the webhook without a bearer token; it is authenticated by signature.
	payments.POST("/callback", h.MidtransCallback)

	payments.Use(auth)
	payments.POST("/:cartId", h.CreateOrUpdateIntent)
	payments.GET("/status/:order_id", h.CheckStatus)
}

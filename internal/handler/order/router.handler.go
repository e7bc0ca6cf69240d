package order

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup, auth gin.HandlerFunc) {
	orders := e.Group("/v1/orders", auth)

	orders.GET("", h.GetOrders)
	orders.GET("/:id", h.GetOrder)
	orders.POST("", h.CreateOrder)
}

package checkout

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup, auth gin.HandlerFunc) {
	checkout := e.Group("/v1/checkout", auth)

	checkout.POST("", h.Start)
	checkout.GET("", h.Get)
	checkout.DELETE("", h.End)
	checkout.PUT("/delivery", h.SelectDelivery)
	checkout.PUT("/save-address", h.SaveAddress)
	checkout.PUT("/step", h.Navigate)
	checkout.POST("/elements/:kind/change", h.ElementChange)
	checkout.POST("/finalize", h.Finalize)
	checkout.GET("/success", h.Success)
}

package cart

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup, auth gin.HandlerFunc) {
	cart := e.Group("/v1/cart", auth)

	cart.GET("", h.GetCart)
	cart.POST("", h.SetCart)
	cart.DELETE("", h.DeleteCart)
}

package delivery

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	e.GET("/v1/payments/delivery-methods", h.GetDeliveryMethods)
}

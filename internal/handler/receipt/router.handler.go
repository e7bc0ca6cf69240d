package receipt

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup, auth gin.HandlerFunc) {
	e.GET("/v1/orders/:id/receipt", auth, h.GetReceipt)
}

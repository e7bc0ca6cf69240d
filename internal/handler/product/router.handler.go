package product

import (
	"github.com/gin-gonic/gin"
)

func (h *Handler) NewRoutes(e *gin.RouterGroup) {
	products := e.Group("/v1/products")

	products.GET("", h.GetProducts)
	products.GET("/:id", h.GetProduct)
}

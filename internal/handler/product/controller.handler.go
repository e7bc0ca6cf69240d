package product

import (
	"context"
	"net/http"
	"strconv"

	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	productService "storefront-checkout/internal/service/product"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx            context.Context
	productService productService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

func NewHandler(ctx context.Context, productService productService.IService) IHandler {
	return &Handler{
		ctx:            ctx,
		productService: productService,
	}
}

// GetProducts godoc
// @Summary      List products
// @Tags         Products
// @Produce      json
// @Param        pageIndex  query     int     false  "Page index, 1-based"
// @Param        pageSize   query     int     false  "Page size"
// @Param        sort       query     string  false  "name, priceAsc or priceDesc"
// @Param        search     query     string  false  "Name search"
// @Param        brands     query     string  false  "Comma separated brands"
// @Param        types      query     string  false  "Comma separated types"
// @Success      200        {object}  types.ResponseAPI{data=types.PaginationResponse[models.Product]}
// @Failure      400        {object}  types.ResponseAPI
// @Router       /v1/products [get]
func (h *Handler) GetProducts(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req productService.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid query",
			Error:   err,
		}))
		return
	}

	send(h.productService.GetProducts(&req))
}

// GetProduct godoc
// @Summary      Get product
// @Tags         Products
// @Produce      json
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  types.ResponseAPI{data=models.Product}
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		send(helper.ParseResponse(&types.Response{Code: http.StatusBadRequest, Message: "invalid product id", Error: err}))
		return
	}

	send(h.productService.GetProduct(uint(id)))
}

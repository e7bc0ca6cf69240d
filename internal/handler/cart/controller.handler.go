package cart

import (
	"context"
	"net/http"

	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	cartService "storefront-checkout/internal/service/cart"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx         context.Context
	cartService cartService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup, auth gin.HandlerFunc)
}

func NewHandler(ctx context.Context, cartService cartService.IService) IHandler {
	return &Handler{
		ctx:         ctx,
		cartService: cartService,
	}
}

// GetCart godoc
// @Summary      Get cart
// @Tags         Cart
// @Produce      json
// @Param        id   query     string  true  "Cart ID"
// @Success      200  {object}  types.ResponseAPI{data=models.Cart}
// @Failure      400  {object}  types.ResponseAPI
// @Router       /v1/cart [get]
func (h *Handler) GetCart(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	id := c.Query("id")
	if id == "" {
		send(helper.ParseResponse(&types.Response{Code: http.StatusBadRequest, Message: "id is required"}))
		return
	}

	send(h.cartService.GetCart(id))
}

// SetCart godoc
// @Summary      Create or replace cart
// @Tags         Cart
// @Accept       json
// @Produce      json
// @Param        request  body      models.Cart  true  "Cart"
// @Success      200      {object}  types.ResponseAPI{data=models.Cart}
// @Failure      400      {object}  types.ResponseAPI
// @Router       /v1/cart [post]
func (h *Handler) SetCart(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	var req models.Cart
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.cartService.SetCart(&req))
}

// DeleteCart godoc
// @Summary      Delete cart
// @Tags         Cart
// @Produce      json
// @Param        id   query     string  true  "Cart ID"
// @Success      200  {object}  types.ResponseAPI
// @Router       /v1/cart [delete]
func (h *Handler) DeleteCart(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	id := c.Query("id")
	if id == "" {
		send(helper.ParseResponse(&types.Response{Code: http.StatusBadRequest, Message: "id is required"}))
		return
	}

	send(h.cartService.DeleteCart(id))
}

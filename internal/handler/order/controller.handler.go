package order

import (
	"context"
	"net/http"
	"strconv"

	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	"storefront-checkout/internal/pkg/middleware"
	orderService "storefront-checkout/internal/service/order"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx          context.Context
	orderService orderService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup, auth gin.HandlerFunc)
}

func NewHandler(ctx context.Context, orderService orderService.IService) IHandler {
	return &Handler{
		ctx:          ctx,
		orderService: orderService,
	}
}

func authUser(c *gin.Context, send func(r *types.Response)) (*types.UserWithAuth, bool) {
	user, ok := middleware.AuthUser(c)
	if !ok {
		send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "unauthorized"}))
		return nil, false
	}
	return &user, true
}

// GetOrders godoc
// @Summary      Orders of the current user
// @Tags         Orders
// @Produce      json
// @Success      200  {object}  types.ResponseAPI{data=[]orderService.OrderResponse}
// @Router       /v1/orders [get]
func (h *Handler) GetOrders(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, ok := authUser(c, send)
	if !ok {
		return
	}

	send(h.orderService.GetOrders(user))
}

// GetOrder godoc
// @Summary      One order of the current user
// @Tags         Orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  types.ResponseAPI{data=orderService.OrderResponse}
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, ok := authUser(c, send)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		send(helper.ParseResponse(&types.Response{Code: http.StatusBadRequest, Message: "invalid order id", Error: err}))
		return
	}

	send(h.orderService.GetOrder(user, uint(id)))
}

// CreateOrder godoc
// @Summary      Place an order for a paid cart
// @Tags         Orders
// @Accept       json
// @Produce      json
// @Param        request  body      models.OrderToCreate  true  "Order"
// @Success      201      {object}  types.ResponseAPI{data=orderService.OrderResponse}
// @Failure      400      {object}  types.ResponseAPI
// @Router       /v1/orders [post]
func (h *Handler) CreateOrder(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))
	user, ok := authUser(c, send)
	if !ok {
		return
	}

	var req models.OrderToCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.orderService.PlaceOrder(user, &req))
}

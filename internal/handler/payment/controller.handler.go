package payment

import (
	"context"
	"net/http"

	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	paymentService "storefront-checkout/internal/service/payment"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx            context.Context
	paymentService paymentService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup, auth gin.HandlerFunc)
}

func NewHandler(ctx context.Context, paymentService paymentService.IService) IHandler {
	return &Handler{
		ctx:            ctx,
		paymentService: paymentService,
	}
}

// CreateOrUpdateIntent godoc
// @Summary      Create or update the cart's payment intent
// @Description  Sizes the payment intent to the cart total and stores its id and client secret on the cart
// @Tags         Payments
// @Produce      json
// @Param        cartId  path      string  true  "Cart ID"
// @Success      200     {object}  types.ResponseAPI{data=models.Cart}
// @Failure      400     {object}  types.ResponseAPI
// @Failure      404     {object}  types.ResponseAPI
// @Router       /v1/payments/{cartId} [post]
func (h *Handler) CreateOrUpdateIntent(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	cartID := c.Param("cartId")
	if cartID == "" {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "cartId is required",
		}))
		return
	}

	send(h.paymentService.CreateOrUpdateIntent(cartID))
}

// CheckStatus godoc
// @Summary      Check payment status
// @Description  Checks real-time payment status from Midtrans API with database fallback
// @Tags         Payments
// @Produce      json
// @Param        order_id  path      string  true  "Order ID"
// @Success      200       {object}  types.ResponseAPI{data=paymentService.PaymentStatusResponse}
// @Failure      400       {object}  types.ResponseAPI
// @Failure      404       {object}  types.ResponseAPI
// @Router       /v1/payments/status/{order_id} [get]
func (h *Handler) CheckStatus(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	orderID := c.Param("order_id")
	if orderID == "" {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "order_id is required",
		}))
		return
	}

	send(h.paymentService.CheckPaymentStatus(orderID))
}

// MidtransCallback godoc
// @Summary      Midtrans payment notification webhook
// @Description  Receives HTTP POST notification from Midtrans when transaction status changes
// @Tags         Payments
// @Accept       json
// @Produce      json
// @Param        request  body      map[string]interface{}  true  "Midtrans notification payload"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      403      {object}  map[string]string
// @Router       /v1/payments/callback [post]
func (h *Handler) MidtransCallback(c *gin.Context) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid payload"})
		return
	}

	result := h.paymentService.MidtransCallback(payload)
	if result.Code != http.StatusOK {
		c.JSON(result.Code, gin.H{"status": "error", "message": result.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

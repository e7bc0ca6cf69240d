package delivery

import (
	"context"

	types "storefront-checkout/internal/common/type"
	deliveryService "storefront-checkout/internal/service/delivery"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx             context.Context
	deliveryService deliveryService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup)
}

func NewHandler(ctx context.Context, deliveryService deliveryService.IService) IHandler {
	return &Handler{
		ctx:             ctx,
		deliveryService: deliveryService,
	}
}

// GetDeliveryMethods godoc
// @Summary      List delivery methods
// @Tags         Payments
// @Produce      json
// @Success      200  {object}  types.ResponseAPI{data=[]models.DeliveryMethod}
// @Router       /v1/payments/delivery-methods [get]
func (h *Handler) GetDeliveryMethods(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	send(h.deliveryService.GetDeliveryMethods())
}

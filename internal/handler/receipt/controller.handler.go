package receipt

import (
	"context"
	"net/http"
	"strconv"

	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	"storefront-checkout/internal/pkg/middleware"
	receiptService "storefront-checkout/internal/service/receipt"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx            context.Context
	receiptService receiptService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup, auth gin.HandlerFunc)
}

func NewHandler(ctx context.Context, receiptService receiptService.IService) IHandler {
	return &Handler{
		ctx:            ctx,
		receiptService: receiptService,
	}
}

// GetReceipt godoc
// @Summary      Receipt download link
// @Description  Returns a presigned link to the archived JSON receipt of one of the user's orders
// @Tags         Orders
// @Produce      json
// @Param        id   path      int  true  "Order ID"
// @Success      200  {object}  types.ResponseAPI{data=receiptService.ReceiptURLResponse}
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/orders/{id}/receipt [get]
func (h *Handler) GetReceipt(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	user, ok := middleware.AuthUser(c)
	if !ok {
		send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "unauthorized"}))
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		send(helper.ParseResponse(&types.Response{Code: http.StatusBadRequest, Message: "invalid order id", Error: err}))
		return
	}

	send(h.receiptService.GetReceiptURL(&user, uint(id)))
}

package account

import (
	"context"
	"net/http"

	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	"storefront-checkout/internal/pkg/middleware"
	accountService "storefront-checkout/internal/service/account"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx            context.Context
	accountService accountService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup, auth gin.HandlerFunc)
}

func NewHandler(ctx context.Context, accountService accountService.IService) IHandler {
	return &Handler{
		ctx:            ctx,
		accountService: accountService,
	}
}

// UserInfo godoc
// @Summary      Current user
// @Tags         Account
// @Produce      json
// @Success      200  {object}  types.ResponseAPI{data=accountService.UserInfoResponse}
// @Failure      401  {object}  types.ResponseAPI
// @Router       /v1/account/user-info [get]
func (h *Handler) UserInfo(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	user, ok := middleware.AuthUser(c)
	if !ok {
		send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "unauthorized"}))
		return
	}

	send(h.accountService.UserInfo(&user))
}

// SaveAddress godoc
// @Summary      Save the user's address
// @Tags         Account
// @Accept       json
// @Produce      json
// @Param        request  body      accountService.AddressRequest  true  "Address"
// @Success      200      {object}  types.ResponseAPI{data=models.Address}
// @Failure      400      {object}  types.ResponseAPI
// @Router       /v1/account/address [post]
func (h *Handler) SaveAddress(c *gin.Context) {
	send := c.MustGet("send").(func(r *types.Response))

	user, ok := middleware.AuthUser(c)
	if !ok {
		send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "unauthorized"}))
		return
	}

	var req accountService.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return
	}

	send(h.accountService.SaveAddress(&user, &req))
}

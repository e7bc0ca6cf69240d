package checkout

import (
	"context"
	"net/http"

	"storefront-checkout/internal/common/enum"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	"storefront-checkout/internal/pkg/middleware"
	checkoutService "storefront-checkout/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	ctx             context.Context
	checkoutService checkoutService.IService
}

type IHandler interface {
	NewRoutes(e *gin.RouterGroup, auth gin.HandlerFunc)
}

func NewHandler(ctx context.Context, checkoutService checkoutService.IService) IHandler {
	return &Handler{
		ctx:             ctx,
		checkoutService: checkoutService,
	}
}

// withUser runs fn with the authenticated buyer, or answers 401.
func withUser(c *gin.Context, fn func(user *types.UserWithAuth) *types.Response) {
	send := c.MustGet("send").(func(r *types.Response))
	user, ok := middleware.AuthUser(c)
	if !ok {
		send(helper.ParseResponse(&types.Response{Code: http.StatusUnauthorized, Message: "unauthorized"}))
		return
	}
	send(fn(&user))
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		send := c.MustGet("send").(func(r *types.Response))
		send(helper.ParseResponse(&types.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Error:   err,
		}))
		return false
	}
	return true
}

// Start godoc
// @Summary      Start checkout
// @Description  Opens a checkout session for the cart, mounting the address and payment elements
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request  body      checkoutService.StartRequest  true  "Cart to check out"
// @Success      201      {object}  types.ResponseAPI{data=checkoutService.CheckoutView}
// @Failure      400      {object}  types.ResponseAPI
// @Failure      404      {object}  types.ResponseAPI
// @Router       /v1/checkout [post]
func (h *Handler) Start(c *gin.Context) {
	var req checkoutService.StartRequest
	if !bindJSON(c, &req) {
		return
	}
	withUser(c, func(user *types.UserWithAuth) *types.Response {
		return h.checkoutService.StartCheckout(user, &req)
	})
}

// Get godoc
// @Summary      Current checkout
// @Tags         Checkout
// @Produce      json
// @Success      200  {object}  types.ResponseAPI{data=checkoutService.CheckoutView}
// @Failure      404  {object}  types.ResponseAPI
// @Router       /v1/checkout [get]
func (h *Handler) Get(c *gin.Context) {
	withUser(c, h.checkoutService.GetCheckout)
}

// SelectDelivery godoc
// @Summary      Select delivery method
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request  body      checkoutService.SelectDeliveryRequest  true  "Delivery method"
// @Success      200      {object}  types.ResponseAPI{data=checkoutService.CheckoutView}
// @Failure      400      {object}  types.ResponseAPI
// @Router       /v1/checkout/delivery [put]
func (h *Handler) SelectDelivery(c *gin.Context) {
	var req checkoutService.SelectDeliveryRequest
	if !bindJSON(c, &req) {
		return
	}
	withUser(c, func(user *types.UserWithAuth) *types.Response {
		return h.checkoutService.SelectDelivery(user, &req)
	})
}

// SaveAddress godoc
// @Summary      Opt in or out of saving the address
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request  body      checkoutService.SaveAddressRequest  true  "Preference"
// @Success      200      {object}  types.ResponseAPI{data=checkoutService.CheckoutView}
// @Router       /v1/checkout/save-address [put]
func (h *Handler) SaveAddress(c *gin.Context) {
	var req checkoutService.SaveAddressRequest
	if !bindJSON(c, &req) {
		return
	}
	withUser(c, func(user *types.UserWithAuth) *types.Response {
		return h.checkoutService.SetSaveAddress(user, &req)
	})
}

// Navigate godoc
// @Summary      Move the stepper
// @Description  Runs the entry action of the target step (0 delivery, 1 address, 2 payment, 3 review)
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        request  body      checkoutService.NavigateRequest  true  "Target step"
// @Success      200      {object}  types.ResponseAPI{data=checkoutService.CheckoutView}
// @Failure      400      {object}  types.ResponseAPI
// @Failure      402      {object}  types.ResponseAPI
// @Router       /v1/checkout/step [put]
func (h *Handler) Navigate(c *gin.Context) {
	var req checkoutService.NavigateRequest
	if !bindJSON(c, &req) {
		return
	}
	withUser(c, func(user *types.UserWithAuth) *types.Response {
		return h.checkoutService.Navigate(user, &req)
	})
}

// ElementChange godoc
// @Summary      Forward a widget change
// @Description  Records the change reported by the client-side address or payment widget
// @Tags         Checkout
// @Accept       json
// @Produce      json
// @Param        kind     path      string                                true  "address or payment"
// @Param        request  body      checkoutService.ElementChangeRequest  true  "Change event"
// @Success      200      {object}  types.ResponseAPI{data=checkoutService.CheckoutView}
// @Failure      400      {object}  types.ResponseAPI
// @Router       /v1/checkout/elements/{kind}/change [post]
func (h *Handler) ElementChange(c *gin.Context) {
	kind := enum.ElementKindEnum(c.Param("kind"))
	if !kind.IsValid() {
		send := c.MustGet("send").(func(r *types.Response))
		send(helper.ParseResponse(&types.Response{Code: http.StatusBadRequest, Message: "unknown element"}))
		return
	}
	var req checkoutService.ElementChangeRequest
	if !bindJSON(c, &req) {
		return
	}
	withUser(c, func(user *types.UserWithAuth) *types.Response {
		return h.checkoutService.ElementChange(user, kind, &req)
	})
}

// Finalize godoc
// @Summary      Pay and place the order
// @Tags         Checkout
// @Produce      json
// @Success      200  {object}  types.ResponseAPI{data=checkoutService.CheckoutView}
// @Failure      402  {object}  types.ResponseAPI
// @Failure      409  {object}  types.ResponseAPI
// @Router       /v1/checkout/finalize [post]
func (h *Handler) Finalize(c *gin.Context) {
	withUser(c, h.checkoutService.Finalize)
}

// Success godoc
// @Summary      Completed order
// @Description  Only available once the checkout placed its order; otherwise the client is sent back to the shop
// @Tags         Checkout
// @Produce      json
// @Success      200  {object}  types.ResponseAPI{data=models.Order}
// @Failure      403  {object}  types.ResponseAPI
// @Router       /v1/checkout/success [get]
func (h *Handler) Success(c *gin.Context) {
	withUser(c, h.checkoutService.Success)
}

// End godoc
// @Summary      Leave checkout
// @Tags         Checkout
// @Produce      json
// @Success      200  {object}  types.ResponseAPI
// @Router       /v1/checkout [delete]
func (h *Handler) End(c *gin.Context) {
	withUser(c, h.checkoutService.EndCheckout)
}

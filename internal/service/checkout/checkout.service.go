package checkout

import (
	"context"
	"errors"
	"net/http"

	"storefront-checkout/internal/common/enum"
	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	"storefront-checkout/internal/service/cart"
	"storefront-checkout/internal/service/payment"

	"github.com/shopspring/decimal"
)

var errNoSession = errors.New("no checkout in progress")

func (s *Service) StartCheckout(user *types.UserWithAuth, req *StartRequest) *types.Response {
	sess, err := s.manager.Start(s.ctx, user, req.CartID)
	if err != nil {
		return s.errorResponse("Failed to start checkout", err)
	}
	return helper.ParseResponse(&types.Response{
		Code:    http.StatusCreated,
		Message: "Checkout started",
		Data:    s.view(sess),
	})
}

func (s *Service) GetCheckout(user *types.UserWithAuth) *types.Response {
	sess, ok := s.manager.Get(user.ID)
	if !ok {
		return s.errorResponse("Checkout not found", errNoSession)
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: s.view(sess)})
}

func (s *Service) SelectDelivery(user *types.UserWithAuth, req *SelectDeliveryRequest) *types.Response {
	return s.apply(user, "Failed to select delivery method", func(ctx context.Context, o *Orchestrator) error {
		return o.SelectDelivery(ctx, req.DeliveryMethodID)
	})
}

func (s *Service) SetSaveAddress(user *types.UserWithAuth, req *SaveAddressRequest) *types.Response {
	return s.apply(user, "Failed to update address preference", func(_ context.Context, o *Orchestrator) error {
		return o.SetSaveAddress(*req.Save)
	})
}

func (s *Service) Navigate(user *types.UserWithAuth, req *NavigateRequest) *types.Response {
	return s.apply(user, "Failed to change step", func(ctx context.Context, o *Orchestrator) error {
		return o.Navigate(ctx, *req.Step)
	})
}

// ElementChange forwards a client widget's change event to its server-side element.
func (s *Service) ElementChange(user *types.UserWithAuth, kind enum.ElementKindEnum, req *ElementChangeRequest) *types.Response {
	return s.apply(user, "Failed to record element change", func(_ context.Context, o *Orchestrator) error {
		el, err := o.Element(kind)
		if err != nil {
			return err
		}
		return el.Emit(models.ElementChangeEvent{
			ElementType: kind,
			Complete:    req.Complete,
			Empty:       req.Empty,
			Value:       req.Value,
		})
	})
}

func (s *Service) Finalize(user *types.UserWithAuth) *types.Response {
	return s.apply(user, "Payment failed", func(ctx context.Context, o *Orchestrator) error {
		return o.Finalize(ctx)
	})
}

// Success is only reachable once the session has placed its order.
func (s *Service) Success(user *types.UserWithAuth) *types.Response {
	sess, ok := s.manager.Get(user.ID)
	if !ok || !sess.orch.Snapshot().OrderComplete {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusForbidden,
			Message: "No completed order",
			Data:    map[string]string{"redirectTo": "/shop"},
		})
	}
	st := sess.orch.Snapshot()
	s.manager.End(user.ID)
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Message: "Order placed", Data: st.Order})
}

func (s *Service) EndCheckout(user *types.UserWithAuth) *types.Response {
	if !s.manager.End(user.ID) {
		return s.errorResponse("Checkout not found", errNoSession)
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Message: "Checkout closed"})
}

func (s *Service) Run(ctx context.Context) {
	s.manager.Run(ctx)
}

func (s *Service) Close() {
	s.manager.Close()
}

func (s *Service) apply(user *types.UserWithAuth, failure string, fn func(ctx context.Context, o *Orchestrator) error) *types.Response {
	sess, ok := s.manager.Get(user.ID)
	if !ok {
		return s.errorResponse("Checkout not found", errNoSession)
	}
	if err := fn(s.ctx, sess.orch); err != nil {
		res := s.errorResponse(failure, err)
		res.Data = s.view(sess)
		return res
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: s.view(sess)})
}

func (s *Service) errorResponse(message string, err error) *types.Response {
	code := http.StatusInternalServerError
	var perr *models.ProviderError
	var ferr *FinalizeError
	switch {
	case errors.Is(err, errNoSession), errors.Is(err, ErrSessionClosed), errors.Is(err, cart.ErrCartNotFound):
		code = http.StatusNotFound
	case errors.Is(err, ErrCheckoutComplete), errors.Is(err, ErrFinalizeInProgress):
		code = http.StatusConflict
	case errors.Is(err, ErrInvalidStep), errors.Is(err, ErrUnknownDeliveryMethod), errors.Is(err, ErrUnknownElement),
		errors.Is(err, ErrNoCart), errors.Is(err, payment.ErrElementNotMounted), errors.Is(err, payment.ErrElementDisposed):
		code = http.StatusBadRequest
	case errors.As(err, &perr), errors.As(err, &ferr):
		code = http.StatusPaymentRequired
		if ferr != nil {
			message = ferr.Message
		} else {
			message = userMessage(err)
		}
	}
	return helper.ParseResponse(&types.Response{Code: code, Message: message, Error: err})
}

// view assembles what the checkout screen renders.
func (s *Service) view(sess *Session) CheckoutView {
	st := sess.orch.Snapshot()
	c := sess.carts.Cart()
	selected := sess.carts.SelectedDelivery()

	v := CheckoutView{
		State:            st.State.ToString(),
		Step:             -1,
		Completion:       st.Completion,
		AllComplete:      AllComplete(st.Completion),
		DeliveryComplete: sess.DeliveryStepComplete(),
		SelectedDelivery: selected,
		DeliveryMethods:  st.Methods,
		Cart:             c,
		SaveAddress:      st.SaveAddress,
		HasToken:         st.Token != nil,
		Busy:             st.Busy,
		OrderComplete:    st.OrderComplete,
		Order:            st.Order,
		LastError:        st.LastError,
		Notices:          sess.DrainNotices(),
		RedirectTo:       sess.RedirectTo(),
	}
	if st.State.IsStep() {
		v.Step = int(st.State)
	}

	subtotal, fee := decimal.Zero, decimal.Zero
	if c != nil {
		subtotal = c.Subtotal()
	}
	if selected != nil {
		fee = selected.Price
	}
	v.Subtotal = s.money.Format(subtotal)
	v.DeliveryFee = s.money.Format(fee)
	v.Total = s.money.Format(subtotal.Add(fee))

	if st.Token != nil {
		v.PaymentSummary = FormatPaymentSummary(st.Token.PaymentMethodPreview.Card)
		if st.Token.Shipping != nil {
			v.ShippingAddress = FormatAddress(DeriveShippingAddress(st.Token.Shipping))
		}
	}
	if v.Notices == nil {
		v.Notices = []Notice{}
	}
	return v
}

package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront-checkout/internal/common/enum"
	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	"storefront-checkout/internal/pkg/logger"
	"storefront-checkout/internal/pkg/rabbitmq"
	"storefront-checkout/internal/pkg/validation"
	deliveryRepo "storefront-checkout/internal/repository/delivery"
	orderRepo "storefront-checkout/internal/repository/order"
	"storefront-checkout/internal/service/cart"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func (s *Service) GetOrders(user *types.UserWithAuth) *types.Response {
	orders, err := s.rp.Order.ListForBuyer(s.ctx, user.ID)
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to load orders", Error: err})
	}
	return helper.ParseResponse(&types.Response{
		Code: http.StatusOK,
		Data: lo.Map(orders, func(o models.Order, _ int) OrderResponse {
			return toResponse(&o)
		}),
	})
}

func (s *Service) GetOrder(user *types.UserWithAuth, id uint) *types.Response {
	o, err := s.rp.Order.FindForBuyer(s.ctx, user.ID, id)
	if errors.Is(err, orderRepo.ErrNotFound) {
		return helper.ParseResponse(&types.Response{Code: http.StatusNotFound, Message: "Order not found", Error: err})
	}
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to load order", Error: err})
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: toResponse(o)})
}

func (s *Service) PlaceOrder(user *types.UserWithAuth, req *models.OrderToCreate) *types.Response {
	o, err := s.CreateOrder(s.ctx, user, req)
	if err != nil {
		code := http.StatusInternalServerError
		switch {
		case errors.Is(err, cart.ErrCartNotFound):
			code = http.StatusNotFound
		case errors.Is(err, ErrMissingPaymentIntent), errors.Is(err, ErrEmptyCart), errors.Is(err, deliveryRepo.ErrNotFound):
			code = http.StatusBadRequest
		}
		return helper.ParseResponse(&types.Response{Code: code, Message: "Order creation failed", Error: err})
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusCreated, Message: "Order created", Data: toResponse(o)})
}

// CreateOrder turns the buyer's cart into an order. It is idempotent per payment
// intent: a retried submission returns the order already placed for that intent.
func (s *Service) CreateOrder(ctx context.Context, user *types.UserWithAuth, toCreate *models.OrderToCreate) (*models.Order, error) {
	if err := validation.Validate(toCreate); err != nil {
		return nil, err
	}

	c, err := s.carts.Load(ctx, toCreate.CartID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, cart.ErrCartNotFound
	}
	if c.PaymentIntentID == "" {
		return nil, ErrMissingPaymentIntent
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	existing, err := s.rp.Order.FindByPaymentIntentID(ctx, c.PaymentIntentID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, orderRepo.ErrNotFound) {
		return nil, err
	}

	status := enum.ORDER_PENDING
	intent, err := s.rp.Payment.FindByID(ctx, c.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment intent %s: %w", c.PaymentIntentID, err)
	}
	if intent.Status == enum.INTENT_SUCCEEDED {
		status = enum.ORDER_PAYMENT_RECEIVED
	}

	dm, err := s.rp.Delivery.FindByID(ctx, toCreate.DeliveryMethodID)
	if err != nil {
		return nil, err
	}

	items, err := s.orderItems(ctx, c)
	if err != nil {
		return nil, err
	}

	o := &models.Order{
		BuyerID:          user.ID,
		BuyerEmail:       user.Email,
		ShippingAddress:  toCreate.ShippingAddress,
		DeliveryMethodID: dm.ID,
		DeliveryMethod:   *dm,
		PaymentSummary:   toCreate.PaymentSummary,
		OrderItems:       items,
		Subtotal:         subtotal(items),
		DeliveryFee:      dm.Price,
		Status:           status,
		PaymentIntentID:  c.PaymentIntentID,
	}
	if err := s.rp.Order.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.publishCreated(ctx, o, c.ID)
	return o, nil
}

// orderItems prices each cart line from the catalog, not from the client's cart.
func (s *Service) orderItems(ctx context.Context, c *models.Cart) ([]models.OrderItem, error) {
	ids := lo.Uniq(lo.Map(c.Items, func(i models.CartItem, _ int) uint { return i.ProductID }))
	products, err := s.rp.Product.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(products, func(p models.Product) uint { return p.ID })

	items := make([]models.OrderItem, 0, len(c.Items))
	for _, line := range c.Items {
		p, ok := byID[line.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %d is no longer available", line.ProductID)
		}
		items = append(items, models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			PictureURL:  p.PictureURL,
			Price:       p.Price,
			Quantity:    line.Quantity,
		})
	}
	return items, nil
}

func (s *Service) publishCreated(ctx context.Context, o *models.Order, cartID string) {
	if s.publisher == nil {
		return
	}
	evt := CreatedEvent{
		Order:      o,
		BuyerID:    o.BuyerID.String(),
		Total:      o.Total(),
		CartID:     cartID,
		OccurredAt: time.Now().Unix(),
	}
	if err := s.publisher.Publish(ctx, rabbitmq.QueueOrderCreated, PatternOrderCreated, evt); err != nil {
		logger.Warning.Printf("Failed to publish %s for order %d: %v", PatternOrderCreated, o.ID, err)
	}
}

func toResponse(o *models.Order) OrderResponse {
	return OrderResponse{Order: o, Total: o.Total()}
}

// Gateway binds the order service to one signed-in buyer.
type Gateway struct {
	svc  IService
	user types.UserWithAuth
}

func (s *Service) ForUser(user *types.UserWithAuth) *Gateway {
	return &Gateway{svc: s, user: *user}
}

func (g *Gateway) CreateOrder(ctx context.Context, toCreate *models.OrderToCreate) (*models.Order, error) {
	return g.svc.CreateOrder(ctx, &g.user, toCreate)
}

func subtotal(items []models.OrderItem) decimal.Decimal {
	return lo.Reduce(items, func(acc decimal.Decimal, i models.OrderItem, _ int) decimal.Decimal {
		return acc.Add(i.Price.Mul(decimal.NewFromInt(int64(i.Quantity))))
	}, decimal.Zero)
}

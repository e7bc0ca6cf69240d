package receipt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	"storefront-checkout/internal/pkg/logger"
	orderRepo "storefront-checkout/internal/repository/order"
	"storefront-checkout/internal/service/order"

	"github.com/samber/lo"
)

func receiptKey(buyerID string, orderID uint) string {
	return fmt.Sprintf("receipts/%s/%d.json", buyerID, orderID)
}

// Archive stores the receipt of a placed order. Without storage it does nothing.
func (s *Service) Archive(ctx context.Context, ev *order.CreatedEvent) error {
	if s.storage == nil {
		return nil
	}
	if ev == nil || ev.Order == nil {
		return errors.New("order.created event without order")
	}

	r := buildReceipt(ev)
	if err := s.storage.UploadJSON(ctx, receiptKey(ev.BuyerID, ev.Order.ID), r); err != nil {
		return err
	}
	logger.Info.Printf("Receipt archived for order %d", ev.Order.ID)
	return nil
}

func buildReceipt(ev *order.CreatedEvent) *Receipt {
	o := ev.Order
	ship := o.ShippingAddress
	parts := lo.Compact([]string{ship.Name, ship.Line1, lo.FromPtr(ship.Line2), ship.City, ship.State, ship.PostalCode, ship.Country})

	return &Receipt{
		OrderID:         o.ID,
		BuyerID:         ev.BuyerID,
		BuyerEmail:      o.BuyerEmail,
		CartID:          ev.CartID,
		PaymentIntentID: o.PaymentIntentID,
		Items: lo.Map(o.OrderItems, func(it models.OrderItem, _ int) Line {
			return Line{ProductID: it.ProductID, Name: it.ProductName, Quantity: it.Quantity, Price: it.Price.StringFixed(2)}
		}),
		Subtotal:    o.Subtotal.StringFixed(2),
		DeliveryFee: o.DeliveryFee.StringFixed(2),
		Total:       ev.Total.StringFixed(2),
		Delivery:    o.DeliveryMethod.ShortName,
		ShipTo:      strings.Join(parts, ", "),
		Payment:     fmt.Sprintf("%s **** %04d", strings.ToUpper(o.PaymentSummary.Brand), o.PaymentSummary.Last4),
		PlacedAt:    ev.OccurredAt,
	}
}

func (s *Service) GetReceiptURL(user *types.UserWithAuth, orderID uint) *types.Response {
	if s.storage == nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusNotFound, Message: "Receipts are not available", Error: ErrDisabled})
	}

	o, err := s.rp.Order.FindForBuyer(s.ctx, user.ID, orderID)
	if errors.Is(err, orderRepo.ErrNotFound) {
		return helper.ParseResponse(&types.Response{Code: http.StatusNotFound, Message: "Order not found", Error: err})
	}
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to load order", Error: err})
	}

	url, err := s.storage.GetPresignedURL(receiptKey(user.ID.String(), o.ID))
	if err != nil {
		return helper.ParseResponse(&types.Response{Code: http.StatusInternalServerError, Message: "Failed to sign receipt url", Error: err})
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: ReceiptURLResponse{URL: url}})
}

package payment

import (
	"context"
	"errors"
	"fmt"

	"storefront-checkout/internal/common/enum"
	"storefront-checkout/internal/common/models"
	paymentRepo "storefront-checkout/internal/repository/payment"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// zeroDecimal lists currencies Midtrans charges in whole units.
var zeroDecimal = map[string]bool{
	"IDR": true,
	"JPY": true,
	"KRW": true,
	"VND": true,
}

func exponent(unit currency.Unit) int32 {
	if zeroDecimal[unit.String()] {
		return 0
	}
	scale, _ := currency.Standard.Rounding(unit)
	return int32(scale)
}

// toMinorUnits converts a decimal amount to the provider's integer representation.
func toMinorUnits(amount decimal.Decimal, unit currency.Unit) int64 {
	return amount.Shift(exponent(unit)).Round(0).IntPart()
}

func mintOrderID(cartID string) (string, error) {
	suffix, err := gonanoid.New(10)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", cartID, suffix), nil
}

// cartTotal prices the cart from the catalog plus its delivery method.
func (s *Service) cartTotal(ctx context.Context, c *models.Cart) (decimal.Decimal, error) {
	ids := lo.Uniq(lo.Map(c.Items, func(i models.CartItem, _ int) uint { return i.ProductID }))
	products, err := s.rp.Product.FindByIDs(ctx, ids)
	if err != nil {
		return decimal.Zero, err
	}
	prices := lo.SliceToMap(products, func(p models.Product) (uint, decimal.Decimal) { return p.ID, p.Price })

	total := decimal.Zero
	for _, item := range c.Items {
		price, ok := prices[item.ProductID]
		if !ok {
			return decimal.Zero, fmt.Errorf("product %d is no longer available", item.ProductID)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if c.DeliveryMethodID != nil {
		dm, err := s.rp.Delivery.FindByID(ctx, *c.DeliveryMethodID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(dm.Price)
	}
	return total, nil
}

// UpsertIntent sizes the cart's payment intent to the current total, creating it on
// first use. The returned cart carries the intent id and has not been persisted.
func (s *Service) UpsertIntent(ctx context.Context, c *models.Cart, buyerEmail string) (*models.Cart, error) {
	if c == nil {
		return nil, ErrNoCart
	}
	total, err := s.cartTotal(ctx, c)
	if err != nil {
		return nil, err
	}
	amount := toMinorUnits(total, s.currency)
	out := c.Clone()

	if c.PaymentIntentID != "" {
		intent, err := s.rp.Payment.FindByID(ctx, c.PaymentIntentID)
		switch {
		case err == nil:
			if intent.Status == enum.INTENT_SUCCEEDED || intent.Amount == amount {
				return out, nil
			}
			err = s.rp.Payment.Update(ctx, intent.ID, map[string]any{
				"amount":   amount,
				"currency": s.currency.String(),
			})
			if err != nil {
				return nil, fmt.Errorf("failed to update payment intent %s: %w", intent.ID, err)
			}
			return out, nil
		case !errors.Is(err, paymentRepo.ErrNotFound):
			return nil, err
		}
	}

	gid, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	orderID, err := mintOrderID(c.ID)
	if err != nil {
		return nil, err
	}
	secret, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	intent := &models.PaymentIntent{
		ID:         "pi_" + gid,
		CartID:     c.ID,
		OrderID:    orderID,
		BuyerEmail: buyerEmail,
		Amount:     amount,
		Currency:   s.currency.String(),
		Status:     enum.INTENT_REQUIRES_PAYMENT_METHOD,
	}
	if err := s.rp.Payment.Create(ctx, intent); err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	out.PaymentIntentID = intent.ID
	out.ClientSecret = fmt.Sprintf("%s_secret_%s", intent.ID, secret)
	return out, nil
}

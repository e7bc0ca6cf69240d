package models

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	ProductID   uint            `json:"productId" validate:"required"`
	ProductName string          `json:"productName" validate:"required"`
	Price       decimal.Decimal `json:"price" validate:"decimalPositive"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	PictureURL  string          `json:"pictureUrl"`
	Brand       string          `json:"brand"`
	Type        string          `json:"type"`
}

// Cart is the shopping cart resource. It lives in redis, not in the relational store.
type Cart struct {
	ID               string     `json:"id" validate:"required"`
	Items            []CartItem `json:"items" validate:"dive"`
	DeliveryMethodID *uint      `json:"deliveryMethodId,omitempty"`
	PaymentIntentID  string     `json:"paymentIntentId,omitempty"`
	ClientSecret     string     `json:"clientSecret,omitempty"`
}

func (c *Cart) Subtotal() decimal.Decimal {
	return lo.Reduce(c.Items, func(acc decimal.Decimal, item CartItem, _ int) decimal.Decimal {
		return acc.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}, decimal.Zero)
}

// Total is the subtotal plus the price of the chosen delivery method, if any.
func (c *Cart) Total(delivery *DeliveryMethod) decimal.Decimal {
	if delivery == nil {
		return c.Subtotal()
	}
	return c.Subtotal().Add(delivery.Price)
}

func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Items = append([]CartItem(nil), c.Items...)
	if c.DeliveryMethodID != nil {
		id := *c.DeliveryMethodID
		cp.DeliveryMethodID = &id
	}
	return &cp
}

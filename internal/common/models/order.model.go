package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront-checkout/internal/common/enum"
)

// ShippingAddress is derived from the address element at the moment it is needed.
type ShippingAddress struct {
	Name       string  `json:"name" gorm:"type:varchar(255)" validate:"required"`
	Line1      string  `json:"line1" gorm:"type:varchar(255)" validate:"required"`
	Line2      *string `json:"line2,omitempty" gorm:"type:varchar(255)"`
	City       string  `json:"city" gorm:"type:varchar(100)" validate:"required"`
	State      string  `json:"state" gorm:"type:varchar(100)"`
	Country    string  `json:"country" gorm:"type:varchar(2)" validate:"required"`
	PostalCode string  `json:"postalCode" gorm:"type:varchar(20)" validate:"required"`
}

type PaymentSummary struct {
	Last4    int    `json:"last4" validate:"gte=0,lte=9999"`
	Brand    string `json:"brand" gorm:"type:varchar(50)" validate:"required"`
	ExpMonth int    `json:"expMonth" validate:"required,min=1,max=12"`
	ExpYear  int    `json:"expYear" validate:"required"`
}

// OrderToCreate is built exactly once, right before submission.
type OrderToCreate struct {
	CartID           string          `json:"cartId" validate:"required"`
	DeliveryMethodID uint            `json:"deliveryMethodId" validate:"required"`
	ShippingAddress  ShippingAddress `json:"shippingAddress" validate:"required"`
	PaymentSummary   PaymentSummary  `json:"paymentSummary" validate:"required"`
}

type Order struct {
	ID               uint                 `json:"id" gorm:"primaryKey"`
	OrderDate        time.Time            `json:"orderDate" gorm:"autoCreateTime"`
	BuyerID          uuid.UUID            `json:"-" gorm:"type:uuid;index;not null"`
	BuyerEmail       string               `json:"buyerEmail" gorm:"type:varchar(255);index;not null"`
	ShippingAddress  ShippingAddress      `json:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_"`
	DeliveryMethodID uint                 `json:"-"`
	DeliveryMethod   DeliveryMethod       `json:"deliveryMethod"`
	PaymentSummary   PaymentSummary       `json:"paymentSummary" gorm:"embedded;embeddedPrefix:payment_"`
	OrderItems       []OrderItem          `json:"orderItems" gorm:"constraint:OnDelete:CASCADE"`
	Subtotal         decimal.Decimal      `json:"subtotal" gorm:"type:decimal(18,2);not null"`
	DeliveryFee      decimal.Decimal      `json:"shippingPrice" gorm:"type:decimal(18,2);not null"`
	Status           enum.OrderStatusEnum `json:"status" gorm:"type:varchar(32);not null;default:'Pending'"`
	PaymentIntentID  string               `json:"paymentIntentId" gorm:"type:varchar(100);uniqueIndex"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) Total() decimal.Decimal {
	return o.Subtotal.Add(o.DeliveryFee)
}

type OrderItem struct {
	ID          uint            `json:"-" gorm:"primaryKey"`
	OrderID     uint            `json:"-" gorm:"index;not null"`
	ProductID   uint            `json:"productId"`
	ProductName string          `json:"productName" gorm:"type:varchar(255)"`
	PictureURL  string          `json:"pictureUrl" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null"`
	Quantity    int             `json:"quantity"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

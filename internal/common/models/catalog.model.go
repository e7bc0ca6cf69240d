package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	Name            string          `json:"name" gorm:"type:varchar(255);not null" validate:"required"`
	Description     string          `json:"description" gorm:"type:text"`
	Price           decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null" validate:"decimalPositive"`
	PictureURL      string          `json:"pictureUrl" gorm:"type:text"`
	Type            string          `json:"type" gorm:"type:varchar(100);index"`
	Brand           string          `json:"brand" gorm:"type:varchar(100);index"`
	QuantityInStock int             `json:"quantityInStock"`
	CreatedAt       time.Time       `json:"-" gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `json:"-" gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

// DeliveryMethod is immutable reference data.
type DeliveryMethod struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	ShortName    string          `json:"shortName" gorm:"type:varchar(100);not null" validate:"required"`
	DeliveryTime string          `json:"deliveryTime" gorm:"type:varchar(100)"`
	Description  string          `json:"description" gorm:"type:text"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null" validate:"decimalNonNeg"`
}

func (DeliveryMethod) TableName() string {
	return "delivery_methods"
}

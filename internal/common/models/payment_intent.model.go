package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"storefront-checkout/internal/common/enum"
)

// JSONB is a custom type for GORM to handle JSONB columns
type JSONB json.RawMessage

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = JSONB("null")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = JSONB(v)
	case string:
		*j = JSONB(v)
	default:
		return errors.New("unsupported type for JSONB")
	}
	return nil
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}
	return []byte(j), nil
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	if j == nil {
		return errors.New("JSONB: UnmarshalJSON on nil pointer")
	}
	*j = append((*j)[0:0], data...)
	return nil
}

// PaymentIntent is the provider-side charge a checkout session is working towards.
// OrderID is the identifier sent to Midtrans and changes whenever the intent is re-sized.
type PaymentIntent struct {
	ID            string                       `json:"id" gorm:"type:varchar(64);primaryKey"`
	CartID        string                       `json:"cart_id" gorm:"type:varchar(64);index;not null"`
	OrderID       string                       `json:"order_id" gorm:"type:varchar(100);uniqueIndex;not null"`
	BuyerEmail    string                       `json:"buyer_email" gorm:"type:varchar(255)"`
	Amount        int64                        `json:"amount" gorm:"not null"`
	Currency      string                       `json:"currency" gorm:"type:varchar(8);not null;default:'IDR'"`
	Status        enum.PaymentIntentStatusEnum `json:"status" gorm:"type:varchar(50);not null;default:'requires_payment_method';index"`
	PaymentType   string                       `json:"payment_type" gorm:"type:varchar(50)"`
	TransactionID string                       `json:"transaction_id" gorm:"type:varchar(255)"`
	FraudStatus   string                       `json:"fraud_status" gorm:"type:varchar(50)"`
	StatusCode    string                       `json:"status_code" gorm:"type:varchar(10)"`
	MaskedCard    string                       `json:"masked_card" gorm:"type:varchar(32)"`
	Metadata      JSONB                        `json:"metadata" gorm:"type:jsonb"`
	CreatedAt     time.Time                    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time                    `json:"updated_at" gorm:"autoUpdateTime"`
	PaidAt        *time.Time                   `json:"paid_at"`
}

func (PaymentIntent) TableName() string {
	return "payment_intents"
}

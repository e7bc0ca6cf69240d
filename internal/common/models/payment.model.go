package models

import (
	"fmt"
	"time"

	"storefront-checkout/internal/common/enum"
)

// ElementAddress is the raw address shape reported by the hosted address element.
type ElementAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

// CardPreview is what the hosted payment element exposes about a tokenised card.
type CardPreview struct {
	TokenID  string `json:"token_id"`
	Last4    string `json:"last4"`
	Brand    string `json:"brand"`
	ExpMonth int    `json:"exp_month"`
	ExpYear  int    `json:"exp_year"`
}

// ElementValue is the current value of a hosted element.
type ElementValue struct {
	Complete bool            `json:"complete"`
	Name     string          `json:"name,omitempty"`
	Address  *ElementAddress `json:"address,omitempty"`
	Card     *CardPreview    `json:"card,omitempty"`
}

type ElementChangeEvent struct {
	ElementType enum.ElementKindEnum `json:"elementType"`
	Complete    bool                 `json:"complete"`
	Empty       bool                 `json:"empty"`
	Value       *ElementValue        `json:"value,omitempty"`
}

type PaymentMethodPreview struct {
	Type string       `json:"type"`
	Card *CardPreview `json:"card,omitempty"`
}

// ConfirmationToken binds a validated address and payment method for one checkout attempt.
type ConfirmationToken struct {
	ID                   string               `json:"id"`
	PaymentIntentID      string               `json:"payment_intent_id"`
	PaymentMethodPreview PaymentMethodPreview `json:"payment_method_preview"`
	Shipping             *ElementValue        `json:"shipping,omitempty"`
	CreatedAt            time.Time            `json:"created"`
	ExpiresAt            time.Time            `json:"expires_at"`
}

type PaymentIntentResult struct {
	ID     string                       `json:"id"`
	Status enum.PaymentIntentStatusEnum `json:"status"`
	Amount int64                        `json:"amount"`
}

// ProviderError is an error object reported by the payment provider, as opposed to a
// transport failure.
type ProviderError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ProviderError) Error() string {
	if e.Code != "" && e.Code != e.Message {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

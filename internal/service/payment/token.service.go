package payment

import (
	"encoding/json"
	"fmt"
	"time"

	"storefront-checkout/internal/common/models"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const tokenKeyPrefix = "ctok:"

var (
	errIncompleteAddress = &models.ProviderError{Type: "validation_error", Code: "incomplete_address", Message: "Your address is incomplete."}
	errIncompleteCard    = &models.ProviderError{Type: "validation_error", Code: "incomplete_card", Message: "Your card details are incomplete."}
	errMissingIntent     = &models.ProviderError{Type: "invalid_request_error", Code: "payment_intent_missing", Message: "Payment has not been set up for this cart."}
	errTokenExpired      = &models.ProviderError{Type: "invalid_request_error", Code: "token_expired", Message: "Your checkout session expired. Please review your order again."}
)

// mintToken binds the address and card preview to the cart's payment intent.
func (s *Service) mintToken(intentID string, address, payment *models.ElementValue) (*models.ConfirmationToken, error) {
	if intentID == "" {
		return nil, errMissingIntent
	}
	if address == nil || !address.Complete || address.Address == nil {
		return nil, errIncompleteAddress
	}
	if payment == nil || !payment.Complete || payment.Card == nil || payment.Card.TokenID == "" {
		return nil, errIncompleteCard
	}

	gid, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	card := *payment.Card
	tok := &models.ConfirmationToken{
		ID:              "ctok_" + gid,
		PaymentIntentID: intentID,
		PaymentMethodPreview: models.PaymentMethodPreview{
			Type: "card",
			Card: &card,
		},
		Shipping:  address,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.redis.Set(tokenKeyPrefix+tok.ID, tok, s.tokenTTL); err != nil {
		return nil, fmt.Errorf("failed to store confirmation token: %w", err)
	}
	return tok, nil
}

// loadToken returns the stored copy of a token, which is the only one trusted for a charge.
func (s *Service) loadToken(id string) (*models.ConfirmationToken, error) {
	raw, err := s.redis.Get(tokenKeyPrefix + id)
	if err != nil {
		return nil, fmt.Errorf("failed to read confirmation token: %w", err)
	}
	if raw == "" {
		return nil, errTokenExpired
	}
	var tok models.ConfirmationToken
	if err := json.Unmarshal([]byte(raw), &tok); err != nil {
		return nil, fmt.Errorf("failed to decode confirmation token: %w", err)
	}
	return &tok, nil
}

package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/helper"
	"storefront-checkout/internal/pkg/logger"
	"storefront-checkout/internal/pkg/validation"
)

func (s *Service) GetCart(id string) *types.Response {
	cart, err := s.Load(s.ctx, id)
	if err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to load cart",
			Error:   err,
		})
	}
	if cart == nil {
		// the storefront treats an unknown id as a fresh, empty cart
		cart = &models.Cart{ID: id, Items: []models.CartItem{}}
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: cart})
}

func (s *Service) SetCart(cart *models.Cart) *types.Response {
	if err := s.Save(s.ctx, cart); err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidCart) {
			code = http.StatusBadRequest
		}
		return helper.ParseResponse(&types.Response{
			Code:    code,
			Message: "Failed to save cart",
			Error:   err,
		})
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Data: cart})
}

func (s *Service) DeleteCart(id string) *types.Response {
	if err := s.Delete(s.ctx, id); err != nil {
		return helper.ParseResponse(&types.Response{
			Code:    http.StatusInternalServerError,
			Message: "Failed to delete cart",
			Error:   err,
		})
	}
	return helper.ParseResponse(&types.Response{Code: http.StatusOK, Message: "Cart deleted"})
}

// Load returns the stored cart, or nil when the id is unknown or expired. Reading a
// cart slides its expiry.
func (s *Service) Load(_ context.Context, id string) (*models.Cart, error) {
	raw, err := s.redis.Get(keyPrefix + id)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart %s: %w", id, err)
	}
	if raw == "" {
		return nil, nil
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart %s: %w", id, err)
	}
	if err := s.redis.Expire(keyPrefix+id, s.ttl); err != nil {
		logger.Warning.Printf("Failed to refresh TTL of cart %s: %v", id, err)
	}
	return &cart, nil
}

// Save writes the whole cart, including the delivery selection, and refreshes its TTL.
func (s *Service) Save(_ context.Context, cart *models.Cart) error {
	if cart == nil {
		return ErrInvalidCart
	}
	if err := validation.Validate(cart); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCart, err)
	}
	if err := s.redis.Set(keyPrefix+cart.ID, cart, s.ttl); err != nil {
		return fmt.Errorf("failed to save cart %s: %w", cart.ID, err)
	}
	return nil
}

func (s *Service) Delete(_ context.Context, id string) error {
	return s.redis.Del(keyPrefix + id)
}

package checkout

import (
	"context"

	"storefront-checkout/internal/common/models"
	"storefront-checkout/internal/service/payment"
)

// CompletionStatus tracks whether each gated input is currently valid.
type CompletionStatus struct {
	Address  bool `json:"address"`
	Card     bool `json:"card"`
	Delivery bool `json:"delivery"`
}

// AllComplete gates confirmation-token creation.
func AllComplete(s CompletionStatus) bool {
	return s.Address && s.Card && s.Delivery
}

// DeriveShippingAddress maps an address element value to a ShippingAddress, or nil
// when the element holds no address yet.
func DeriveShippingAddress(v *models.ElementValue) *models.ShippingAddress {
	if v == nil || v.Address == nil {
		return nil
	}
	a := v.Address
	out := &models.ShippingAddress{
		Name:       v.Name,
		Line1:      a.Line1,
		City:       a.City,
		State:      a.State,
		Country:    a.Country,
		PostalCode: a.PostalCode,
	}
	if a.Line2 != "" {
		line2 := a.Line2
		out.Line2 = &line2
	}
	return out
}

// readAddress re-reads the element on every call; the widget is the only source of truth.
func readAddress(ctx context.Context, el payment.IElement) (*models.ShippingAddress, error) {
	if el == nil {
		return nil, nil
	}
	v, err := el.GetValue(ctx)
	if err != nil {
		return nil, err
	}
	return DeriveShippingAddress(v), nil
}

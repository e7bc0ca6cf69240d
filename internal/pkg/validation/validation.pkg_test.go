package validation

import (
	"testing"

	"storefront-checkout/internal/common/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateShippingAddress(t *testing.T) {
	require.NoError(t, Setup())

	err := Validate(models.ShippingAddress{Name: "Bob", Line1: "1 Main St", City: "NYC", Country: "US", PostalCode: "10001"})
	assert.NoError(t, err)

	err = Validate(models.ShippingAddress{Name: "Bob", City: "NYC", Country: "US", PostalCode: "10001"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ShippingAddress.line1 is required")
}

func TestValidateDecimalTags(t *testing.T) {
	type priced struct {
		Price decimal.Decimal `json:"price" validate:"decimalPositive"`
		Fee   decimal.Decimal `json:"fee" validate:"decimalNonNeg"`
	}

	assert.NoError(t, Validate(priced{Price: decimal.NewFromInt(1), Fee: decimal.Zero}))

	err := Validate(priced{Price: decimal.Zero, Fee: decimal.NewFromInt(-1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price must be a positive amount")
	assert.Contains(t, err.Error(), "fee must not be negative")
}

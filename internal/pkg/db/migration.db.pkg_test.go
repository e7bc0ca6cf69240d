package database

import (
	"testing"

	"storefront-checkout/internal/common/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSeedsAreValid(t *testing.T) {
	require.NoError(t, validateSeeds(DefaultDeliveryMethods()))
	require.NoError(t, validateSeeds(DefaultProducts()))

	free := DefaultDeliveryMethods()[3]
	assert.True(t, free.Price.IsZero())
}

func TestValidateSeedsRejectsBadRows(t *testing.T) {
	err := validateSeeds([]models.DeliveryMethod{{ShortName: "UPS9", Price: decimal.NewFromInt(-1)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "#0")

	err = validateSeeds([]models.Product{{Name: "Hat", Price: decimal.Zero}})
	require.Error(t, err)
}

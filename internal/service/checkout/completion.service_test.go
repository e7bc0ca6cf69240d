package checkout

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"storefront-checkout/internal/common/enum"
	"storefront-checkout/internal/common/models"
	"storefront-checkout/internal/service/payment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestAllComplete(t *testing.T) {
	for _, address := range []bool{false, true} {
		for _, card := range []bool{false, true} {
			for _, delivery := range []bool{false, true} {
				s := CompletionStatus{Address: address, Card: card, Delivery: delivery}
				t.Run(fmt.Sprintf("%v/%v/%v", address, card, delivery), func(t *testing.T) {
					assert.Equal(t, address && card && delivery, AllComplete(s))
				})
			}
		}
	}
}

func TestDeriveShippingAddress(t *testing.T) {
	t.Run("no address", func(t *testing.T) {
		assert.Nil(t, DeriveShippingAddress(nil))
		assert.Nil(t, DeriveShippingAddress(&models.ElementValue{Name: "Ana"}))
	})

	t.Run("empty line2 is omitted", func(t *testing.T) {
		got := DeriveShippingAddress(&models.ElementValue{
			Name: "Ana",
			Address: &models.ElementAddress{
				Line1: "1 Main St", City: "Springfield", State: "IL", Country: "US", PostalCode: "62701",
			},
		})
		require.NotNil(t, got)
		assert.Nil(t, got.Line2)
		assert.Equal(t, "Ana", got.Name)
		assert.Equal(t, "62701", got.PostalCode)
	})

	t.Run("line2 kept", func(t *testing.T) {
		got := DeriveShippingAddress(&models.ElementValue{
			Name:    "Ana",
			Address: &models.ElementAddress{Line1: "1 Main St", Line2: "Apt 4"},
		})
		require.NotNil(t, got.Line2)
		assert.Equal(t, "Apt 4", *got.Line2)
	})
}

func TestReadAddressRereadsElement(t *testing.T) {
	el := payment.NewElement(enum.ADDRESS_ELEMENT)
	require.NoError(t, el.Mount(AddressElementTarget))
	ctx := context.Background()

	first, err := readAddress(ctx, el)
	require.NoError(t, err)
	assert.Nil(t, first)

	require.NoError(t, el.Emit(models.ElementChangeEvent{Complete: true, Value: addressValue("1 Main St")}))
	a, err := readAddress(ctx, el)
	require.NoError(t, err)
	b, err := readAddress(ctx, el)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	require.NoError(t, el.Emit(models.ElementChangeEvent{Complete: true, Value: addressValue("2 Side St")}))
	c, err := readAddress(ctx, el)
	require.NoError(t, err)
	assert.Equal(t, "2 Side St", c.Line1)
}

func TestFormatPaymentSummary(t *testing.T) {
	tests := []struct {
		name string
		card *models.CardPreview
		want string
	}{
		{"nil", nil, "Unknown Payment Details"},
		{"full", &models.CardPreview{Brand: "visa", Last4: "4242", ExpMonth: 4, ExpYear: 2027}, "VISA **** **** **** 4242, Exp: 04/27"},
		{"no brand", &models.CardPreview{Last4: "1111", ExpMonth: 12, ExpYear: 2030}, "Card **** **** **** 1111, Exp: 12/30"},
		{"no last4 or expiry", &models.CardPreview{Brand: "mastercard"}, "MASTERCARD **** **** **** ****"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPaymentSummary(tt.card))
		})
	}
}

func TestFormatAddress(t *testing.T) {
	line2 := "Apt 4"
	assert.Equal(t, "Unknown address", FormatAddress(nil))
	assert.Equal(t, "Ana, 1 Main St, Apt 4, Springfield, IL, 62701, US", FormatAddress(&models.ShippingAddress{
		Name: "Ana", Line1: "1 Main St", Line2: &line2, City: "Springfield", State: "IL", Country: "US", PostalCode: "62701",
	}))
	assert.Equal(t, "Ana, 1 Main St, Jakarta", FormatAddress(&models.ShippingAddress{Name: "Ana", Line1: "1 Main St", City: "Jakarta"}))
}

func TestMoneyFormat(t *testing.T) {
	m := NewMoney("USD", language.AmericanEnglish)
	assert.Contains(t, m.Format(decimal.RequireFromString("12.5")), "12.50")

	fallback := NewMoney("not-a-currency", language.English)
	assert.Contains(t, fallback.Format(decimal.NewFromInt(3)), "3.00")
}

func TestMoneyFormatIsExactForLargeAmounts(t *testing.T) {
	m := NewMoney("USD", language.AmericanEnglish)
	// 2^53 + 1 has no float64 representation
	assert.True(t, strings.HasSuffix(m.Format(decimal.RequireFromString("9007199254740993.07")), "9,007,199,254,740,993.07"))
	assert.True(t, strings.HasSuffix(m.Format(decimal.RequireFromString("1234.005")), "1,234.01"))
	assert.True(t, strings.HasPrefix(m.Format(decimal.RequireFromString("-5")), "-"))

	id := NewMoney("IDR", language.Indonesian)
	assert.True(t, strings.HasSuffix(id.Format(decimal.RequireFromString("1500000")), "1.500.000,00"))
}

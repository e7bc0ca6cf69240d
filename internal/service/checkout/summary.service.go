package checkout

import (
	"fmt"
	"strings"

	"storefront-checkout/internal/common/models"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var upper = cases.Upper(language.Und)

// FormatPaymentSummary renders a card preview as "VISA **** **** **** 4242, Exp: 04/27".
func FormatPaymentSummary(card *models.CardPreview) string {
	if card == nil {
		return "Unknown Payment Details"
	}
	brand := upper.String(card.Brand)
	if brand == "" {
		brand = "Card"
	}
	last4 := card.Last4
	if last4 == "" {
		last4 = "****"
	}
	out := fmt.Sprintf("%s **** **** **** %s", brand, last4)
	if card.ExpMonth > 0 && card.ExpYear > 0 {
		year := fmt.Sprintf("%d", card.ExpYear)
		out += fmt.Sprintf(", Exp: %02d/%s", card.ExpMonth, year[max(len(year)-2, 0):])
	}
	return out
}

// FormatAddress renders a shipping address on one line for the review step.
func FormatAddress(a *models.ShippingAddress) string {
	if a == nil {
		return "Unknown address"
	}
	parts := []string{a.Name, a.Line1}
	if a.Line2 != nil {
		parts = append(parts, *a.Line2)
	}
	parts = append(parts, a.City, a.State, a.PostalCode, a.Country)
	nonEmpty := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}

// Money formats amounts in the store currency for the buyer's locale. Digits come
// from the decimal itself; only the separators and the symbol come from the locale.
type Money struct {
	unit    currency.Unit
	scale   int32
	symbol  string
	group   string
	decimal string
}

func NewMoney(code string, tag language.Tag) Money {
	unit, err := currency.ParseISO(code)
	if err != nil {
		unit = currency.USD
	}
	scale, _ := currency.Standard.Rounding(unit)
	p := message.NewPrinter(tag)
	return Money{
		unit:    unit,
		scale:   int32(scale),
		symbol:  p.Sprint(currency.Symbol(unit)),
		group:   strings.Trim(p.Sprint(1000), "01"),
		decimal: strings.Trim(p.Sprintf("%.1f", 1.5), "15"),
	}
}

func (m Money) Format(amount decimal.Decimal) string {
	digits := amount.Abs().StringFixed(m.scale)
	whole, frac, _ := strings.Cut(digits, ".")

	var b strings.Builder
	if amount.Round(m.scale).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(m.symbol)
	b.WriteByte(' ')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(m.group)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(m.decimal)
		b.WriteString(frac)
	}
	return b.String()
}

package payment

import (
	"context"
	"errors"
	"sync"

	"storefront-checkout/internal/common/enum"
	"storefront-checkout/internal/common/models"
)

// CartHolder is the slice of a cart store the provider needs.
type CartHolder interface {
	Cart() *models.Cart
	SetCart(ctx context.Context, c *models.Cart) error
}

// Provider is one checkout session's handle on the payment provider: its two
// hosted elements plus the intent, token and charge calls scoped to its cart.
type Provider struct {
	svc        *Service
	carts      CartHolder
	buyerEmail string

	mu       sync.Mutex
	address  *Element
	payment  *Element
	disposed bool
}

func (s *Service) NewProvider(carts CartHolder, buyerEmail string) *Provider {
	return &Provider{svc: s, carts: carts, buyerEmail: buyerEmail}
}

func (p *Provider) element(kind enum.ElementKindEnum) (*Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return nil, ErrProviderDisposed
	}
	slot := &p.address
	if kind == enum.PAYMENT_ELEMENT {
		slot = &p.payment
	}
	if *slot == nil {
		*slot = NewElement(kind)
	}
	return *slot, nil
}

// CreateAddressElement returns the session's address element, creating it once.
func (p *Provider) CreateAddressElement(_ context.Context) (IElement, error) {
	return p.element(enum.ADDRESS_ELEMENT)
}

func (p *Provider) CreatePaymentElement(_ context.Context) (IElement, error) {
	return p.element(enum.PAYMENT_ELEMENT)
}

// Element looks up an element that has already been created.
func (p *Provider) Element(kind enum.ElementKindEnum) (IElement, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return nil, false
	}
	switch kind {
	case enum.ADDRESS_ELEMENT:
		return p.address, p.address != nil
	case enum.PAYMENT_ELEMENT:
		return p.payment, p.payment != nil
	}
	return nil, false
}

func (p *Provider) CreateOrUpdatePaymentIntent(ctx context.Context) error {
	c := p.carts.Cart()
	if c == nil {
		return ErrNoCart
	}
	updated, err := p.svc.UpsertIntent(ctx, c, p.buyerEmail)
	if err != nil {
		return err
	}
	return p.carts.SetCart(ctx, updated)
}

func (p *Provider) CreateConfirmationToken(ctx context.Context) (*models.ConfirmationToken, error) {
	c := p.carts.Cart()
	if c == nil {
		return nil, ErrNoCart
	}
	address, err := p.value(ctx, enum.ADDRESS_ELEMENT)
	if err != nil {
		return nil, err
	}
	card, err := p.value(ctx, enum.PAYMENT_ELEMENT)
	if err != nil {
		return nil, err
	}
	return p.svc.mintToken(c.PaymentIntentID, address, card)
}

func (p *Provider) value(ctx context.Context, kind enum.ElementKindEnum) (*models.ElementValue, error) {
	el, ok := p.Element(kind)
	if !ok {
		return nil, nil
	}
	return el.GetValue(ctx)
}

func (p *Provider) ConfirmPayment(ctx context.Context, token *models.ConfirmationToken) (*models.PaymentIntentResult, error) {
	if token == nil {
		return nil, errTokenExpired
	}
	stored, err := p.svc.loadToken(token.ID)
	if errors.Is(err, errTokenExpired) && token.PaymentIntentID != "" {
		// A charged intent stays confirmable after its token expires so the order can still be placed.
		if intent, ferr := p.svc.rp.Payment.FindByID(ctx, token.PaymentIntentID); ferr == nil && intent.Status == enum.INTENT_SUCCEEDED {
			return &models.PaymentIntentResult{ID: intent.ID, Status: intent.Status, Amount: intent.Amount}, nil
		}
	}
	if err != nil {
		return nil, err
	}
	return p.svc.confirm(ctx, stored, p.buyerEmail)
}

// DisposeElements tears down both elements. Later calls are no-ops.
func (p *Provider) DisposeElements() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return
	}
	p.disposed = true
	for _, el := range []*Element{p.address, p.payment} {
		if el != nil {
			el.Dispose()
		}
	}
}

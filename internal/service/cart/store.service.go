package cart

import (
	"context"
	"sync"

	"storefront-checkout/internal/common/models"
)

// Store is one checkout session's view of the cart plus the chosen delivery method.
// Every mutation is written through to the backing cart resource.
type Store struct {
	mu       sync.RWMutex
	svc      IService
	cart     *models.Cart
	selected *models.DeliveryMethod
}

func (s *Service) NewStore(ctx context.Context, id string) (*Store, error) {
	cart, err := s.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	return NewStoreWith(s, cart), nil
}

func NewStoreWith(svc IService, cart *models.Cart) *Store {
	return &Store{svc: svc, cart: cart}
}

// Cart returns a copy of the current cart, or nil once cleared.
func (s *Store) Cart() *models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

func (s *Store) SetCart(ctx context.Context, cart *models.Cart) error {
	if err := s.svc.Save(ctx, cart); err != nil {
		return err
	}
	s.Replace(cart)
	return nil
}

// Replace swaps the in-memory cart for one that has already been persisted.
func (s *Store) Replace(cart *models.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = cart.Clone()
}

func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cart == nil {
		return nil
	}
	if err := s.svc.Delete(ctx, s.cart.ID); err != nil {
		return err
	}
	s.cart = nil
	return nil
}

func (s *Store) SelectedDelivery() *models.DeliveryMethod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	m := *s.selected
	return &m
}

func (s *Store) SetSelectedDelivery(m *models.DeliveryMethod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m == nil {
		s.selected = nil
		return
	}
	cp := *m
	s.selected = &cp
}

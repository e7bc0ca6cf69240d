package checkout

import (
	"context"
	"sync"

	"storefront-checkout/internal/common/enum"
	"storefront-checkout/internal/common/models"
	"storefront-checkout/internal/service/payment"

	"github.com/stretchr/testify/mock"
)

type fakeCart struct {
	mu       sync.Mutex
	cart     *models.Cart
	selected *models.DeliveryMethod
	saved    []*models.Cart
	cleared  int
	setErr   error
	clearErr error
}

func (f *fakeCart) Cart() *models.Cart {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cart.Clone()
}

func (f *fakeCart) SetCart(_ context.Context, c *models.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.cart = c.Clone()
	f.saved = append(f.saved, c.Clone())
	return nil
}

func (f *fakeCart) ClearCart(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cart = nil
	f.cleared++
	return nil
}

func (f *fakeCart) SelectedDelivery() *models.DeliveryMethod {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.selected
}

func (f *fakeCart) SetSelectedDelivery(m *models.DeliveryMethod) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selected = m
}

type recorder struct {
	mu          sync.Mutex
	errors      []string
	warnings    []string
	delivery    []bool
	completions []CompletionStatus
	navigations []string
}

func (r *recorder) Error(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, msg)
}

func (r *recorder) Warning(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, msg)
}

func (r *recorder) DeliveryComplete(complete bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.delivery = append(r.delivery, complete)
}

func (r *recorder) CompletionChanged(status CompletionStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.completions = append(r.completions, status)
}

func (r *recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.navigations = append(r.navigations, path)
}

func (r *recorder) Errors() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.errors...)
}

func (r *recorder) Warnings() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.warnings...)
}

func (r *recorder) Navigations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.navigations...)
}

// mockProvider hands out real elements so change events flow through Emit.
type mockProvider struct {
	mock.Mock
	address  *payment.Element
	payment  *payment.Element
	mu       sync.Mutex
	disposed int
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		address: payment.NewElement(enum.ADDRESS_ELEMENT),
		payment: payment.NewElement(enum.PAYMENT_ELEMENT),
	}
}

func (m *mockProvider) CreateAddressElement(_ context.Context) (payment.IElement, error) {
	return m.address, nil
}

func (m *mockProvider) CreatePaymentElement(_ context.Context) (payment.IElement, error) {
	return m.payment, nil
}

func (m *mockProvider) CreateOrUpdatePaymentIntent(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockProvider) CreateConfirmationToken(ctx context.Context) (*models.ConfirmationToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConfirmationToken), args.Error(1)
}

func (m *mockProvider) ConfirmPayment(ctx context.Context, token *models.ConfirmationToken) (*models.PaymentIntentResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentIntentResult), args.Error(1)
}

func (m *mockProvider) DisposeElements() {
	m.mu.Lock()
	m.disposed++
	m.mu.Unlock()
	m.address.Dispose()
	m.payment.Dispose()
}

func (m *mockProvider) Disposed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.disposed
}

type mockCatalog struct{ mock.Mock }

func (m *mockCatalog) ListDeliveryMethods(ctx context.Context) ([]models.DeliveryMethod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DeliveryMethod), args.Error(1)
}

type mockAccount struct{ mock.Mock }

func (m *mockAccount) UpdateAddress(ctx context.Context, address *models.Address) error {
	return m.Called(ctx, address).Error(0)
}

type mockOrders struct{ mock.Mock }

func (m *mockOrders) CreateOrder(ctx context.Context, toCreate *models.OrderToCreate) (*models.Order, error) {
	args := m.Called(ctx, toCreate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

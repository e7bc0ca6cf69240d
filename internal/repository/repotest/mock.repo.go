// Package repotest holds testify mocks of the repository interfaces.
package repotest

import (
	"context"

	"storefront-checkout/internal/common/enum"
	"storefront-checkout/internal/common/models"
	productRepo "storefront-checkout/internal/repository/product"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type AccountRepo struct{ mock.Mock }

func (m *AccountRepo) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *AccountRepo) UpsertAddress(ctx context.Context, userID uuid.UUID, address *models.Address) (*models.Address, error) {
	args := m.Called(ctx, userID, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Address), args.Error(1)
}

type DeliveryRepo struct{ mock.Mock }

func (m *DeliveryRepo) FindAll(ctx context.Context) ([]models.DeliveryMethod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.DeliveryMethod), args.Error(1)
}

func (m *DeliveryRepo) FindByID(ctx context.Context, id uint) (*models.DeliveryMethod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeliveryMethod), args.Error(1)
}

type OrderRepo struct{ mock.Mock }

func (m *OrderRepo) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepo) FindByPaymentIntentID(ctx context.Context, paymentIntentID string) (*models.Order, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderRepo) FindForBuyer(ctx context.Context, buyerID uuid.UUID, id uint) (*models.Order, error) {
	args := m.Called(ctx, buyerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *OrderRepo) ListForBuyer(ctx context.Context, buyerID uuid.UUID) ([]models.Order, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}

func (m *OrderRepo) UpdateStatusByPaymentIntent(ctx context.Context, paymentIntentID string, status enum.OrderStatusEnum) error {
	args := m.Called(ctx, paymentIntentID, status)
	return args.Error(0)
}

type PaymentRepo struct{ mock.Mock }

func (m *PaymentRepo) Create(ctx context.Context, intent *models.PaymentIntent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}

func (m *PaymentRepo) FindByID(ctx context.Context, id string) (*models.PaymentIntent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentIntent), args.Error(1)
}

func (m *PaymentRepo) FindByOrderID(ctx context.Context, orderID string) (*models.PaymentIntent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentIntent), args.Error(1)
}

func (m *PaymentRepo) Update(ctx context.Context, id string, updates map[string]any) error {
	args := m.Called(ctx, id, updates)
	return args.Error(0)
}

func (m *PaymentRepo) UpdateByOrderID(ctx context.Context, orderID string, updates map[string]any) error {
	args := m.Called(ctx, orderID, updates)
	return args.Error(0)
}

type ProductRepo struct{ mock.Mock }

func (m *ProductRepo) List(ctx context.Context, q productRepo.ListQuery) ([]models.Product, int64, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepo) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

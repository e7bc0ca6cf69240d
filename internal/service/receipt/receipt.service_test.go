package receipt

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/repository"
	orderRepo "storefront-checkout/internal/repository/order"
	"storefront-checkout/internal/repository/repotest"
	"storefront-checkout/internal/service/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	uploads map[string]any
	err     error
}

func (f *fakeStorage) GetBucketName() string { return "receipts" }

func (f *fakeStorage) UploadFile(_ context.Context, key string, body []byte, _ string) error {
	f.uploads[key] = body
	return f.err
}

func (f *fakeStorage) UploadJSON(_ context.Context, key string, v any) error {
	if f.err != nil {
		return f.err
	}
	f.uploads[key] = v
	return nil
}

func (f *fakeStorage) GetPresignedURL(key string) (string, error) {
	return "https://s3.example.com/" + key, nil
}

func placedEvent(buyer uuid.UUID) *order.CreatedEvent {
	line2 := "Apt 4"
	return &order.CreatedEvent{
		Order: &models.Order{
			ID:         42,
			BuyerEmail: "ana@example.com",
			ShippingAddress: models.ShippingAddress{
				Name: "Ana", Line1: "1 Main St", Line2: &line2, City: "Jakarta", Country: "ID", PostalCode: "10110",
			},
			DeliveryMethod: models.DeliveryMethod{ShortName: "UPS1"},
			PaymentSummary: models.PaymentSummary{Last4: 42, Brand: "visa", ExpMonth: 4, ExpYear: 2027},
			OrderItems: []models.OrderItem{
				{ProductID: 1, ProductName: "Boots", Quantity: 2, Price: decimal.NewFromInt(50)},
			},
			Subtotal:        decimal.NewFromInt(100),
			DeliveryFee:     decimal.NewFromInt(10),
			PaymentIntentID: "pi_1",
		},
		BuyerID:    buyer.String(),
		Total:      decimal.NewFromInt(110),
		CartID:     "cart-1",
		OccurredAt: 1700000000,
	}
}

func TestArchiveWritesReceipt(t *testing.T) {
	storage := &fakeStorage{uploads: map[string]any{}}
	svc := NewService(context.Background(), repository.IRepository{}, storage)
	buyer := uuid.New()

	require.NoError(t, svc.Archive(context.Background(), placedEvent(buyer)))

	got, ok := storage.uploads["receipts/"+buyer.String()+"/42.json"].(*Receipt)
	require.True(t, ok)
	assert.Equal(t, "110.00", got.Total)
	assert.Equal(t, "Ana, 1 Main St, Apt 4, Jakarta, 10110, ID", got.ShipTo)
	assert.Equal(t, "VISA **** 0042", got.Payment)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "50.00", got.Items[0].Price)
}

func TestArchiveWithoutStorageIsNoop(t *testing.T) {
	svc := NewService(context.Background(), repository.IRepository{}, nil)
	assert.NoError(t, svc.Archive(context.Background(), placedEvent(uuid.New())))
}

func TestArchivePropagatesUploadError(t *testing.T) {
	storage := &fakeStorage{uploads: map[string]any{}, err: errors.New("throttled")}
	svc := NewService(context.Background(), repository.IRepository{}, storage)
	assert.Error(t, svc.Archive(context.Background(), placedEvent(uuid.New())))
	assert.Error(t, svc.Archive(context.Background(), &order.CreatedEvent{}))
}

func TestGetReceiptURL(t *testing.T) {
	user := &types.UserWithAuth{ID: uuid.New()}
	orders := &repotest.OrderRepo{}
	orders.On("FindForBuyer", mock.Anything, user.ID, uint(42)).Return(&models.Order{ID: 42}, nil)
	orders.On("FindForBuyer", mock.Anything, user.ID, uint(7)).Return(nil, orderRepo.ErrNotFound)
	svc := NewService(context.Background(), repository.IRepository{Order: orders}, &fakeStorage{uploads: map[string]any{}})

	res := svc.GetReceiptURL(user, 42)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "https://s3.example.com/receipts/"+user.ID.String()+"/42.json", res.Data.(ReceiptURLResponse).URL)

	assert.Equal(t, http.StatusNotFound, svc.GetReceiptURL(user, 7).Code)

	disabled := NewService(context.Background(), repository.IRepository{Order: orders}, nil)
	assert.Equal(t, http.StatusNotFound, disabled.GetReceiptURL(user, 42).Code)
}

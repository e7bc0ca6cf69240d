package cart

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"storefront-checkout/internal/common/models"
	"storefront-checkout/internal/pkg/redis/redistest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCart(id string) *models.Cart {
	return &models.Cart{
		ID: id,
		Items: []models.CartItem{
			{ProductID: 1, ProductName: "Boots", Price: decimal.RequireFromString("10.50"), Quantity: 2},
		},
	}
}

func TestService_SaveLoadDelete(t *testing.T) {
	ctx := context.Background()
	rds := redistest.New()
	svc := NewService(ctx, rds, time.Hour)

	require.NoError(t, svc.Save(ctx, newCart("c1")))
	assert.True(t, rds.Has("cart:c1"))

	got, err := svc.Load(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "21", got.Subtotal().String())

	require.NoError(t, svc.Delete(ctx, "c1"))
	got, err = svc.Load(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestService_SaveRejectsInvalidCart(t *testing.T) {
	svc := NewService(context.Background(), redistest.New(), time.Hour)

	bad := newCart("c1")
	bad.Items[0].Quantity = 0
	err := svc.Save(context.Background(), bad)
	assert.ErrorIs(t, err, ErrInvalidCart)

	res := svc.SetCart(bad)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestService_GetCartUnknownIsEmpty(t *testing.T) {
	svc := NewService(context.Background(), redistest.New(), time.Hour)

	res := svc.GetCart("fresh")
	require.Equal(t, http.StatusOK, res.Code)
	cart := res.Data.(*models.Cart)
	assert.Equal(t, "fresh", cart.ID)
	assert.Empty(t, cart.Items)
}

func TestStore_WritesThrough(t *testing.T) {
	ctx := context.Background()
	rds := redistest.New()
	svc := NewService(ctx, rds, time.Hour)
	require.NoError(t, svc.Save(ctx, newCart("c1")))

	store, err := svc.NewStore(ctx, "c1")
	require.NoError(t, err)

	cart := store.Cart()
	id := uint(2)
	cart.DeliveryMethodID = &id
	require.NoError(t, store.SetCart(ctx, cart))

	persisted, err := svc.Load(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, persisted.DeliveryMethodID)
	assert.Equal(t, uint(2), *persisted.DeliveryMethodID)

	// callers get copies
	store.Cart().Items[0].Quantity = 99
	assert.Equal(t, 2, store.Cart().Items[0].Quantity)

	require.NoError(t, store.ClearCart(ctx))
	assert.Nil(t, store.Cart())
	assert.False(t, rds.Has("cart:c1"))
}

func TestStore_FailedWriteKeepsOldCart(t *testing.T) {
	ctx := context.Background()
	rds := redistest.New()
	svc := NewService(ctx, rds, time.Hour)
	require.NoError(t, svc.Save(ctx, newCart("c1")))
	store, err := svc.NewStore(ctx, "c1")
	require.NoError(t, err)

	rds.FailWith = errors.New("connection refused")
	cart := store.Cart()
	id := uint(1)
	cart.DeliveryMethodID = &id

	assert.Error(t, store.SetCart(ctx, cart))
	assert.Nil(t, store.Cart().DeliveryMethodID)
}

func TestNewStoreMissingCart(t *testing.T) {
	svc := NewService(context.Background(), redistest.New(), time.Hour)
	_, err := svc.NewStore(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestStore_SelectedDelivery(t *testing.T) {
	store := NewStoreWith(nil, newCart("c1"))
	assert.Nil(t, store.SelectedDelivery())

	m := &models.DeliveryMethod{ID: 1, ShortName: "UPS1", Price: decimal.NewFromInt(10)}
	store.SetSelectedDelivery(m)
	m.ShortName = "mutated"
	assert.Equal(t, "UPS1", store.SelectedDelivery().ShortName)

	store.SetSelectedDelivery(nil)
	assert.Nil(t, store.SelectedDelivery())
}

package delivery

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"storefront-checkout/internal/common/models"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/repository/repotest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListDeliveryMethods(t *testing.T) {
	repo := new(repotest.DeliveryRepo)
	methods := []models.DeliveryMethod{{ID: 1, ShortName: "UPS1", Price: decimal.NewFromInt(10)}}
	repo.On("FindAll", mock.Anything).Return(methods, nil).Once()

	svc := NewService(context.Background(), repository.IRepository{Delivery: repo})
	got, err := svc.ListDeliveryMethods(context.Background())
	require.NoError(t, err)
	assert.Equal(t, methods, got)

	repo.AssertExpectations(t)
}

func TestListDeliveryMethodsCoalesces(t *testing.T) {
	repo := new(repotest.DeliveryRepo)
	release := make(chan time.Time)
	repo.On("FindAll", mock.Anything).
		WaitUntil(release).
		Return([]models.DeliveryMethod{{ID: 1}}, nil)

	svc := NewService(context.Background(), repository.IRepository{Delivery: repo})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.ListDeliveryMethods(context.Background())
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	repo.AssertNumberOfCalls(t, "FindAll", 1)
}

func TestGetDeliveryMethodsError(t *testing.T) {
	repo := new(repotest.DeliveryRepo)
	repo.On("FindAll", mock.Anything).Return(nil, errors.New("db down"))

	svc := NewService(context.Background(), repository.IRepository{Delivery: repo})
	res := svc.GetDeliveryMethods()
	assert.Equal(t, http.StatusInternalServerError, res.Code)
}

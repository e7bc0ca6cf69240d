package delivery

import (
	"context"

	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/repository"

	"golang.org/x/sync/singleflight"
)

type Service struct {
	ctx   context.Context
	rp    repository.IRepository
	group singleflight.Group
}

type IService interface {
	GetDeliveryMethods() *types.Response
	ListDeliveryMethods(ctx context.Context) ([]models.DeliveryMethod, error)
}

func NewService(ctx context.Context, rp repository.IRepository) IService {
	return &Service{
		ctx: ctx,
		rp:  rp,
	}
}

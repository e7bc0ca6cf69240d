package cart

import (
	"context"
	"errors"
	"time"

	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/redis"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrInvalidCart  = errors.New("invalid cart")
)

const keyPrefix = "cart:"

type Service struct {
	ctx   context.Context
	redis redis.IRedis
	ttl   time.Duration
}

type IService interface {
	GetCart(id string) *types.Response
	SetCart(cart *models.Cart) *types.Response
	DeleteCart(id string) *types.Response

	Load(ctx context.Context, id string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, id string) error
	NewStore(ctx context.Context, id string) (*Store, error)
}

func NewService(ctx context.Context, redis redis.IRedis, ttl time.Duration) IService {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Service{
		ctx:   ctx,
		redis: redis,
		ttl:   ttl,
	}
}

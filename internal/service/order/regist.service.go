package order

import (
	"context"
	"errors"

	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/rabbitmq"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/service/cart"

	"github.com/shopspring/decimal"
)

const PatternOrderCreated = "order.created"

var (
	ErrMissingPaymentIntent = errors.New("cart has no payment intent")
	ErrEmptyCart            = errors.New("cart has no items")
)

type Service struct {
	ctx       context.Context
	rp        repository.IRepository
	carts     cart.IService
	publisher rabbitmq.IPublisher
}

type IService interface {
	GetOrders(user *types.UserWithAuth) *types.Response
	GetOrder(user *types.UserWithAuth, id uint) *types.Response
	PlaceOrder(user *types.UserWithAuth, req *models.OrderToCreate) *types.Response

	CreateOrder(ctx context.Context, user *types.UserWithAuth, toCreate *models.OrderToCreate) (*models.Order, error)
	ForUser(user *types.UserWithAuth) *Gateway
}

// NewService wires the order service. publisher may be nil, in which case no
// order.created events are emitted.
func NewService(ctx context.Context, rp repository.IRepository, carts cart.IService, publisher rabbitmq.IPublisher) IService {
	return &Service{
		ctx:       ctx,
		rp:        rp,
		carts:     carts,
		publisher: publisher,
	}
}

type OrderResponse struct {
	*models.Order
	Total decimal.Decimal `json:"total"`
}

// CreatedEvent is the order.created payload.
type CreatedEvent struct {
	Order      *models.Order   `json:"order"`
	BuyerID    string          `json:"buyerId"`
	Total      decimal.Decimal `json:"total"`
	CartID     string          `json:"cartId"`
	OccurredAt int64           `json:"occurredAt"`
}

package payment

import (
	"context"
	"errors"
	"time"

	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	midtransPkg "storefront-checkout/internal/pkg/midtrans"
	"storefront-checkout/internal/pkg/rabbitmq"
	"storefront-checkout/internal/pkg/redis"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/service/cart"

	"golang.org/x/text/currency"
)

const PatternReconcile = "payment.reconcile"

var (
	ErrNoCart           = errors.New("no cart to pay for")
	ErrStillPending     = errors.New("payment is still pending")
	ErrProviderDisposed = errors.New("payment elements have been disposed")
)

type Options struct {
	Currency string
	TokenTTL time.Duration
	ThreeDS  bool
}

type Service struct {
	ctx       context.Context
	rp        repository.IRepository
	carts     cart.IService
	midtrans  *midtransPkg.MidtransClient
	redis     redis.IRedis
	publisher rabbitmq.IPublisher
	currency  currency.Unit
	tokenTTL  time.Duration
	threeDS   bool
}

type IService interface {
	CreateOrUpdateIntent(cartID string) *types.Response
	CheckPaymentStatus(orderID string) *types.Response
	MidtransCallback(payload map[string]any) *types.Response

	UpsertIntent(ctx context.Context, c *models.Cart, buyerEmail string) (*models.Cart, error)
	Reconcile(ctx context.Context, orderID string) error
	NewProvider(carts CartHolder, buyerEmail string) *Provider
}

func NewService(ctx context.Context, rp repository.IRepository, carts cart.IService, midtrans *midtransPkg.MidtransClient, redis redis.IRedis, publisher rabbitmq.IPublisher, opts Options) IService {
	unit, err := currency.ParseISO(opts.Currency)
	if err != nil {
		unit = currency.MustParseISO("IDR")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 15 * time.Minute
	}
	return &Service{
		ctx:       ctx,
		rp:        rp,
		carts:     carts,
		midtrans:  midtrans,
		redis:     redis,
		publisher: publisher,
		currency:  unit,
		tokenTTL:  opts.TokenTTL,
		threeDS:   opts.ThreeDS,
	}
}

// Request/Response DTOs

type PaymentStatusResponse struct {
	OrderID       string `json:"order_id"`
	Status        string `json:"status"`
	PaymentType   string `json:"payment_type"`
	Amount        int64  `json:"amount"`
	TransactionID string `json:"transaction_id"`
}

// ReconcileEvent is the payment.reconcile payload.
type ReconcileEvent struct {
	OrderID  string `json:"order_id"`
	IntentID string `json:"intent_id"`
}

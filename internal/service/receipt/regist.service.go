package receipt

import (
	"context"
	"errors"

	types "storefront-checkout/internal/common/type"
	s3aws "storefront-checkout/internal/pkg/storage/s3"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/service/order"
)

var ErrDisabled = errors.New("receipt archive is not configured")

type Service struct {
	ctx     context.Context
	rp      repository.IRepository
	storage s3aws.Is3
}

type IService interface {
	GetReceiptURL(user *types.UserWithAuth, orderID uint) *types.Response

	Archive(ctx context.Context, ev *order.CreatedEvent) error
}

// NewService wires the receipt archive. storage may be nil when no bucket is configured.
func NewService(ctx context.Context, rp repository.IRepository, storage s3aws.Is3) IService {
	return &Service{
		ctx:     ctx,
		rp:      rp,
		storage: storage,
	}
}

// Receipt is the document archived for every placed order.
type Receipt struct {
	OrderID         uint   `json:"orderId"`
	BuyerID         string `json:"buyerId"`
	BuyerEmail      string `json:"buyerEmail"`
	CartID          string `json:"cartId"`
	PaymentIntentID string `json:"paymentIntentId"`
	Items           []Line `json:"items"`
	Subtotal        string `json:"subtotal"`
	DeliveryFee     string `json:"shippingPrice"`
	Total           string `json:"total"`
	Delivery        string `json:"deliveryMethod"`
	ShipTo          string `json:"shipTo"`
	Payment         string `json:"payment"`
	PlacedAt        int64  `json:"placedAt"`
}

type Line struct {
	ProductID uint   `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

type ReceiptURLResponse struct {
	URL string `json:"url"`
}

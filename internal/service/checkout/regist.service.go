package checkout

import (
	"context"
	"time"

	"storefront-checkout/internal/common/enum"
	"storefront-checkout/internal/common/models"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/logger"
	"storefront-checkout/internal/pkg/metrics"
	"storefront-checkout/internal/service/account"
	"storefront-checkout/internal/service/cart"
	"storefront-checkout/internal/service/delivery"
	"storefront-checkout/internal/service/order"
	"storefront-checkout/internal/service/payment"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

type Service struct {
	ctx     context.Context
	manager *Manager
	money   Money
}

type IService interface {
	StartCheckout(user *types.UserWithAuth, req *StartRequest) *types.Response
	GetCheckout(user *types.UserWithAuth) *types.Response
	SelectDelivery(user *types.UserWithAuth, req *SelectDeliveryRequest) *types.Response
	SetSaveAddress(user *types.UserWithAuth, req *SaveAddressRequest) *types.Response
	Navigate(user *types.UserWithAuth, req *NavigateRequest) *types.Response
	ElementChange(user *types.UserWithAuth, kind enum.ElementKindEnum, req *ElementChangeRequest) *types.Response
	Finalize(user *types.UserWithAuth) *types.Response
	Success(user *types.UserWithAuth) *types.Response
	EndCheckout(user *types.UserWithAuth) *types.Response

	Run(ctx context.Context)
	Close()
}

type Options struct {
	IdleTTL         time.Duration
	FinalizeTimeout time.Duration
	Currency        string
	Locale          string
}

type Collaborators struct {
	Carts    cart.IService
	Delivery delivery.IService
	Accounts account.IService
	Orders   order.IService
	Payments payment.IService
	Metrics  *metrics.CheckoutMetrics
}

func NewService(ctx context.Context, c Collaborators, opts Options) IService {
	tag, err := language.Parse(opts.Locale)
	if err != nil {
		tag = language.AmericanEnglish
	}
	factory := func(ctx context.Context, user *types.UserWithAuth, cartID string, ui Notifier) (Deps, error) {
		store, err := c.Carts.NewStore(ctx, cartID)
		if err != nil {
			return Deps{}, err
		}
		return Deps{
			Cart:            store,
			Catalog:         c.Delivery,
			Account:         c.Accounts.ForUser(user.ID),
			Orders:          c.Orders.ForUser(user),
			Provider:        c.Payments.NewProvider(store, user.Email),
			UI:              ui,
			Metrics:         c.Metrics,
			Log:             logger.With(zap.String("user_id", user.ID.String()), zap.String("cart_id", cartID)),
			FinalizeTimeout: opts.FinalizeTimeout,
		}, nil
	}
	return NewServiceWithManager(ctx, NewManager(factory, opts.IdleTTL, c.Metrics), NewMoney(opts.Currency, tag))
}

func NewServiceWithManager(ctx context.Context, manager *Manager, money Money) IService {
	return &Service{
		ctx:     ctx,
		manager: manager,
		money:   money,
	}
}

// Request/Response DTOs

type StartRequest struct {
	CartID string `json:"cartId" binding:"required"`
}

type SelectDeliveryRequest struct {
	DeliveryMethodID uint `json:"deliveryMethodId" binding:"required"`
}

type SaveAddressRequest struct {
	Save *bool `json:"save" binding:"required"`
}

type NavigateRequest struct {
	Step *int `json:"step" binding:"required,min=0,max=3"`
}

type ElementChangeRequest struct {
	Complete bool                 `json:"complete"`
	Empty    bool                 `json:"empty"`
	Value    *models.ElementValue `json:"value"`
}

type CheckoutView struct {
	State            string                  `json:"state"`
	Step             int                     `json:"step"`
	Completion       CompletionStatus        `json:"completionStatus"`
	AllComplete      bool                    `json:"allComplete"`
	DeliveryComplete bool                    `json:"deliveryComplete"`
	SelectedDelivery *models.DeliveryMethod  `json:"selectedDelivery"`
	DeliveryMethods  []models.DeliveryMethod `json:"deliveryMethods"`
	Cart             *models.Cart            `json:"cart"`
	Subtotal         string                  `json:"subtotal"`
	DeliveryFee      string                  `json:"shipping"`
	Total            string                  `json:"total"`
	SaveAddress      bool                    `json:"saveAddress"`
	HasToken         bool                    `json:"hasConfirmationToken"`
	PaymentSummary   string                  `json:"paymentSummary,omitempty"`
	ShippingAddress  string                  `json:"shippingAddress,omitempty"`
	Busy             bool                    `json:"loading"`
	OrderComplete    bool                    `json:"orderComplete"`
	Order            *models.Order           `json:"order,omitempty"`
	LastError        string                  `json:"lastError,omitempty"`
	Notices          []Notice                `json:"notices"`
	RedirectTo       string                  `json:"redirectTo,omitempty"`
}

package payment

import (
	"context"
	"net/http"
	"testing"
	"time"

	"storefront-checkout/internal/common/enum"
	"storefront-checkout/internal/common/models"
	midtransPkg "storefront-checkout/internal/pkg/midtrans"
	"storefront-checkout/internal/pkg/rabbitmq"
	"storefront-checkout/internal/pkg/rabbitmq/rabbitmqtest"
	"storefront-checkout/internal/pkg/redis/redistest"
	"storefront-checkout/internal/repository"
	paymentRepo "storefront-checkout/internal/repository/payment"
	"storefront-checkout/internal/repository/repotest"
	"storefront-checkout/internal/service/cart"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

type mockCoreAPI struct {
	mock.Mock
}

func (m *mockCoreAPI) ChargeTransaction(req *coreapi.ChargeReq) (*coreapi.ChargeResponse, *midtrans.Error) {
	args := m.Called(req)
	var resp *coreapi.ChargeResponse
	if v := args.Get(0); v != nil {
		resp = v.(*coreapi.ChargeResponse)
	}
	var midErr *midtrans.Error
	if v := args.Get(1); v != nil {
		midErr = v.(*midtrans.Error)
	}
	return resp, midErr
}

func (m *mockCoreAPI) CheckTransaction(orderID string) (*coreapi.TransactionStatusResponse, *midtrans.Error) {
	args := m.Called(orderID)
	var resp *coreapi.TransactionStatusResponse
	if v := args.Get(0); v != nil {
		resp = v.(*coreapi.TransactionStatusResponse)
	}
	var midErr *midtrans.Error
	if v := args.Get(1); v != nil {
		midErr = v.(*midtrans.Error)
	}
	return resp, midErr
}

type fixture struct {
	svc       *Service
	core      *mockCoreAPI
	payments  *repotest.PaymentRepo
	products  *repotest.ProductRepo
	delivery  *repotest.DeliveryRepo
	orders    *repotest.OrderRepo
	redis     *redistest.Fake
	publisher *rabbitmqtest.Publisher
	carts     cart.IService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		core:      new(mockCoreAPI),
		payments:  new(repotest.PaymentRepo),
		products:  new(repotest.ProductRepo),
		delivery:  new(repotest.DeliveryRepo),
		orders:    new(repotest.OrderRepo),
		redis:     redistest.New(),
		publisher: &rabbitmqtest.Publisher{},
	}
	f.carts = cart.NewService(ctx, f.redis, time.Hour)
	rp := repository.IRepository{Payment: f.payments, Product: f.products, Delivery: f.delivery, Order: f.orders}
	client := &midtransPkg.MidtransClient{CoreAPI: f.core, ServerKey: "server-key"}
	f.svc = NewService(ctx, rp, f.carts, client, f.redis, f.publisher, Options{Currency: "IDR", TokenTTL: time.Minute}).(*Service)
	return f
}

func testCart() *models.Cart {
	dm := uint(1)
	return &models.Cart{
		ID:               "cart-1",
		DeliveryMethodID: &dm,
		Items: []models.CartItem{
			{ProductID: 7, ProductName: "Boots", Price: decimal.NewFromInt(1), Quantity: 2},
		},
	}
}

func (f *fixture) priceCatalog() {
	f.products.On("FindByIDs", mock.Anything, []uint{7}).Return([]models.Product{{ID: 7, Price: decimal.NewFromInt(50000)}}, nil)
	f.delivery.On("FindByID", mock.Anything, uint(1)).Return(&models.DeliveryMethod{ID: 1, Price: decimal.NewFromInt(15000)}, nil)
}

func TestToMinorUnits(t *testing.T) {
	assert.EqualValues(t, 115000, toMinorUnits(decimal.RequireFromString("115000.00"), currency.MustParseISO("IDR")))
	assert.EqualValues(t, 1050, toMinorUnits(decimal.RequireFromString("10.5"), currency.USD))
	assert.EqualValues(t, 1999, toMinorUnits(decimal.RequireFromString("19.99"), currency.EUR))
}

func TestMapStatus(t *testing.T) {
	tests := []struct {
		status, fraud string
		want          enum.PaymentIntentStatusEnum
		code          string
	}{
		{"capture", "accept", enum.INTENT_SUCCEEDED, ""},
		{"capture", "challenge", enum.INTENT_REQUIRES_ACTION, ""},
		{"settlement", "", enum.INTENT_SUCCEEDED, ""},
		{"pending", "", enum.INTENT_PROCESSING, ""},
		{"deny", "", enum.INTENT_FAILED, "card_declined"},
		{"cancel", "", enum.INTENT_FAILED, "payment_canceled"},
		{"expire", "", enum.INTENT_FAILED, "payment_expired"},
		{"refund", "", enum.INTENT_REQUIRES_PAYMENT_METHOD, ""},
	}
	for _, tt := range tests {
		t.Run(tt.status+"/"+tt.fraud, func(t *testing.T) {
			got, perr := mapStatus(tt.status, tt.fraud)
			assert.Equal(t, tt.want, got)
			if tt.code == "" {
				assert.Nil(t, perr)
				return
			}
			require.NotNil(t, perr)
			assert.Equal(t, tt.code, perr.Code)
		})
	}
}

func TestUpsertIntentCreatesOnce(t *testing.T) {
	f := newFixture(t)
	f.priceCatalog()
	var created *models.PaymentIntent
	f.payments.On("Create", mock.Anything, mock.AnythingOfType("*models.PaymentIntent")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*models.PaymentIntent) }).
		Return(nil)

	out, err := f.svc.UpsertIntent(context.Background(), testCart(), "bob@test.com")
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, created.ID, out.PaymentIntentID)
	assert.NotEmpty(t, out.ClientSecret)
	assert.EqualValues(t, 115000, created.Amount)
	assert.Equal(t, "IDR", created.Currency)
	assert.Contains(t, created.OrderID, "cart-1-")

	f.payments.On("FindByID", mock.Anything, created.ID).Return(created, nil)
	again, err := f.svc.UpsertIntent(context.Background(), out, "bob@test.com")
	require.NoError(t, err)
	assert.Equal(t, out.PaymentIntentID, again.PaymentIntentID)
	f.payments.AssertNumberOfCalls(t, "Create", 1)
	f.payments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpsertIntentResizes(t *testing.T) {
	f := newFixture(t)
	f.priceCatalog()
	c := testCart()
	c.PaymentIntentID = "pi_1"
	f.payments.On("FindByID", mock.Anything, "pi_1").Return(&models.PaymentIntent{ID: "pi_1", Amount: 100, Status: enum.INTENT_REQUIRES_PAYMENT_METHOD}, nil)
	f.payments.On("Update", mock.Anything, "pi_1", map[string]any{"amount": int64(115000), "currency": "IDR"}).Return(nil)

	_, err := f.svc.UpsertIntent(context.Background(), c, "")
	require.NoError(t, err)
	f.payments.AssertExpectations(t)
}

func mountedProvider(t *testing.T, f *fixture, c *models.Cart) (*Provider, IElement, IElement) {
	t.Helper()
	store := cart.NewStoreWith(f.carts, c)
	p := f.svc.NewProvider(store, "bob@test.com")
	addr, err := p.CreateAddressElement(context.Background())
	require.NoError(t, err)
	pay, err := p.CreatePaymentElement(context.Background())
	require.NoError(t, err)
	require.NoError(t, addr.Mount("#address-element"))
	require.NoError(t, pay.Mount("#payment-element"))
	return p, addr, pay
}

func completeElements(t *testing.T, addr, pay IElement) {
	t.Helper()
	require.NoError(t, addr.Emit(models.ElementChangeEvent{Complete: true, Value: &models.ElementValue{
		Name:    "Bob Smith",
		Address: &models.ElementAddress{Line1: "1 Main St", City: "Jakarta", Country: "ID", PostalCode: "10110"},
	}}))
	require.NoError(t, pay.Emit(models.ElementChangeEvent{Complete: true, Value: &models.ElementValue{
		Card: &models.CardPreview{TokenID: "481111-1114-abc", Last4: "1114", Brand: "visa", ExpMonth: 4, ExpYear: 2027},
	}}))
}

func TestConfirmationTokenRequiresCompleteElements(t *testing.T) {
	f := newFixture(t)
	c := testCart()
	c.PaymentIntentID = "pi_1"
	p, addr, _ := mountedProvider(t, f, c)

	require.NoError(t, addr.Emit(models.ElementChangeEvent{Complete: true, Value: &models.ElementValue{
		Address: &models.ElementAddress{Line1: "1 Main St"},
	}}))
	_, err := p.CreateConfirmationToken(context.Background())

	var perr *models.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "incomplete_card", perr.Code)
}

func TestConfirmPaymentSucceeds(t *testing.T) {
	f := newFixture(t)
	c := testCart()
	c.PaymentIntentID = "pi_1"
	p, addr, pay := mountedProvider(t, f, c)
	completeElements(t, addr, pay)

	tok, err := p.CreateConfirmationToken(context.Background())
	require.NoError(t, err)
	assert.True(t, f.redis.Has("ctok:"+tok.ID))
	assert.Equal(t, "1114", tok.PaymentMethodPreview.Card.Last4)

	f.payments.On("FindByID", mock.Anything, "pi_1").Return(&models.PaymentIntent{ID: "pi_1", OrderID: "cart-1-x", Amount: 115000, Status: enum.INTENT_REQUIRES_PAYMENT_METHOD}, nil)
	f.core.On("ChargeTransaction", mock.MatchedBy(func(req *coreapi.ChargeReq) bool {
		return req.TransactionDetails.OrderID == "cart-1-x" &&
			req.TransactionDetails.GrossAmt == 115000 &&
			req.CreditCard.TokenID == "481111-1114-abc" &&
			req.CustomerDetails.ShipAddr.CountryCode == "IDN"
	})).Return(&coreapi.ChargeResponse{TransactionStatus: "capture", FraudStatus: "accept", StatusCode: "200"}, nil)
	f.payments.On("Update", mock.Anything, "pi_1", mock.Anything).Return(nil)

	res, err := p.ConfirmPayment(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, enum.INTENT_SUCCEEDED, res.Status)
	assert.True(t, f.redis.Has("ctok:"+tok.ID))
	assert.Empty(t, f.publisher.Sent())
}

func TestConfirmPaymentRetryAfterChargeDoesNotChargeAgain(t *testing.T) {
	f := newFixture(t)
	c := testCart()
	c.PaymentIntentID = "pi_1"
	p, addr, pay := mountedProvider(t, f, c)
	completeElements(t, addr, pay)
	tok, err := p.CreateConfirmationToken(context.Background())
	require.NoError(t, err)

	f.payments.On("FindByID", mock.Anything, "pi_1").
		Return(&models.PaymentIntent{ID: "pi_1", OrderID: "cart-1-x", Amount: 115000, Status: enum.INTENT_REQUIRES_PAYMENT_METHOD}, nil).Once()
	f.payments.On("FindByID", mock.Anything, "pi_1").
		Return(&models.PaymentIntent{ID: "pi_1", OrderID: "cart-1-x", Amount: 115000, Status: enum.INTENT_SUCCEEDED}, nil)
	f.core.On("ChargeTransaction", mock.Anything).
		Return(&coreapi.ChargeResponse{TransactionStatus: "settlement", StatusCode: "200"}, nil).Once()
	f.payments.On("Update", mock.Anything, "pi_1", mock.Anything).Return(nil)

	res, err := p.ConfirmPayment(context.Background(), tok)
	require.NoError(t, err)
	require.Equal(t, enum.INTENT_SUCCEEDED, res.Status)

	// the order failed, so the session retries with the token it kept
	res, err = p.ConfirmPayment(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, enum.INTENT_SUCCEEDED, res.Status)

	// and still succeeds once the stored token has expired
	require.NoError(t, f.redis.Del("ctok:"+tok.ID))
	res, err = p.ConfirmPayment(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, enum.INTENT_SUCCEEDED, res.Status)

	f.core.AssertNumberOfCalls(t, "ChargeTransaction", 1)
}

func TestConfirmPaymentExpiredTokenBeforeChargeIsRejected(t *testing.T) {
	f := newFixture(t)
	c := testCart()
	c.PaymentIntentID = "pi_1"
	p, addr, pay := mountedProvider(t, f, c)
	completeElements(t, addr, pay)
	tok, err := p.CreateConfirmationToken(context.Background())
	require.NoError(t, err)
	require.NoError(t, f.redis.Del("ctok:"+tok.ID))

	f.payments.On("FindByID", mock.Anything, "pi_1").
		Return(&models.PaymentIntent{ID: "pi_1", Status: enum.INTENT_REQUIRES_PAYMENT_METHOD}, nil)

	_, err = p.ConfirmPayment(context.Background(), tok)
	assert.ErrorIs(t, err, errTokenExpired)
	f.core.AssertNotCalled(t, "ChargeTransaction", mock.Anything)
}

func TestConfirmPaymentDeclined(t *testing.T) {
	f := newFixture(t)
	c := testCart()
	c.PaymentIntentID = "pi_1"
	p, addr, pay := mountedProvider(t, f, c)
	completeElements(t, addr, pay)
	tok, err := p.CreateConfirmationToken(context.Background())
	require.NoError(t, err)

	f.payments.On("FindByID", mock.Anything, "pi_1").Return(&models.PaymentIntent{ID: "pi_1", OrderID: "cart-1-x", Amount: 1}, nil)
	f.core.On("ChargeTransaction", mock.Anything).Return(&coreapi.ChargeResponse{TransactionStatus: "deny", StatusCode: "202"}, nil)
	f.payments.On("Update", mock.Anything, "pi_1", mock.Anything).Return(nil)

	_, err = p.ConfirmPayment(context.Background(), tok)
	var perr *models.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "Your card was declined.", perr.Message)
	assert.True(t, f.redis.Has("ctok:"+tok.ID), "token survives a decline")
}

func TestConfirmPaymentPendingSchedulesReconcile(t *testing.T) {
	f := newFixture(t)
	c := testCart()
	c.PaymentIntentID = "pi_1"
	p, addr, pay := mountedProvider(t, f, c)
	completeElements(t, addr, pay)
	tok, err := p.CreateConfirmationToken(context.Background())
	require.NoError(t, err)

	f.payments.On("FindByID", mock.Anything, "pi_1").Return(&models.PaymentIntent{ID: "pi_1", OrderID: "cart-1-x"}, nil)
	f.core.On("ChargeTransaction", mock.Anything).Return(&coreapi.ChargeResponse{TransactionStatus: "pending", StatusCode: "201"}, nil)
	f.payments.On("Update", mock.Anything, "pi_1", mock.Anything).Return(nil)

	res, err := p.ConfirmPayment(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, enum.INTENT_PROCESSING, res.Status)

	sent := f.publisher.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, rabbitmq.QueuePaymentReconcile, sent[0].Queue)
	assert.Equal(t, ReconcileEvent{OrderID: "cart-1-x", IntentID: "pi_1"}, sent[0].Data)
}

func TestConfirmPaymentMidtransError(t *testing.T) {
	f := newFixture(t)
	c := testCart()
	c.PaymentIntentID = "pi_1"
	p, addr, pay := mountedProvider(t, f, c)
	completeElements(t, addr, pay)
	tok, err := p.CreateConfirmationToken(context.Background())
	require.NoError(t, err)

	f.payments.On("FindByID", mock.Anything, "pi_1").Return(&models.PaymentIntent{ID: "pi_1", OrderID: "cart-1-x"}, nil)
	f.core.On("ChargeTransaction", mock.Anything).Return(nil, &midtrans.Error{Message: "token id is invalid", StatusCode: 411})

	_, err = p.ConfirmPayment(context.Background(), tok)
	var perr *models.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "token id is invalid", perr.Message)
}

func TestConfirmPaymentAlreadySucceededDoesNotCharge(t *testing.T) {
	f := newFixture(t)
	c := testCart()
	c.PaymentIntentID = "pi_1"
	p, addr, pay := mountedProvider(t, f, c)
	completeElements(t, addr, pay)
	tok, err := p.CreateConfirmationToken(context.Background())
	require.NoError(t, err)

	f.payments.On("FindByID", mock.Anything, "pi_1").Return(&models.PaymentIntent{ID: "pi_1", Status: enum.INTENT_SUCCEEDED}, nil)

	res, err := p.ConfirmPayment(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, enum.INTENT_SUCCEEDED, res.Status)
	f.core.AssertNotCalled(t, "ChargeTransaction", mock.Anything)
}

func TestConfirmPaymentUnknownToken(t *testing.T) {
	f := newFixture(t)
	p, _, _ := mountedProvider(t, f, testCart())

	_, err := p.ConfirmPayment(context.Background(), &models.ConfirmationToken{ID: "ctok_missing"})
	var perr *models.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "token_expired", perr.Code)
}

func TestReconcile(t *testing.T) {
	f := newFixture(t)
	f.core.On("CheckTransaction", "cart-1-x").Return(&coreapi.TransactionStatusResponse{TransactionStatus: "pending"}, nil).Once()
	f.payments.On("UpdateByOrderID", mock.Anything, "cart-1-x", mock.Anything).Return(nil)

	assert.ErrorIs(t, f.svc.Reconcile(context.Background(), "cart-1-x"), ErrStillPending)

	f.core.On("CheckTransaction", "cart-1-x").Return(&coreapi.TransactionStatusResponse{TransactionStatus: "settlement"}, nil).Once()
	f.payments.On("FindByOrderID", mock.Anything, "cart-1-x").Return(&models.PaymentIntent{ID: "pi_1"}, nil)
	f.orders.On("UpdateStatusByPaymentIntent", mock.Anything, "pi_1", enum.ORDER_PAYMENT_RECEIVED).Return(nil)

	require.NoError(t, f.svc.Reconcile(context.Background(), "cart-1-x"))
	f.orders.AssertExpectations(t)
}

func TestMidtransCallbackRejectsBadSignature(t *testing.T) {
	tests := map[string]map[string]any{
		"forged": {
			"order_id":      "cart-1-x",
			"status_code":   "200",
			"gross_amount":  "115000.00",
			"signature_key": "forged",
		},
		"missing": {
			"order_id":     "cart-1-x",
			"status_code":  "200",
			"gross_amount": "115000.00",
		},
	}
	for name, payload := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			res := f.svc.MidtransCallback(payload)
			assert.Equal(t, http.StatusForbidden, res.Code)
			f.core.AssertNotCalled(t, "CheckTransaction", mock.Anything)
		})
	}
}

func TestMidtransCallbackUnknownOrderIsAcknowledged(t *testing.T) {
	f := newFixture(t)
	sig := midtransPkg.Signature("other-1", "200", "1.00", "server-key")
	f.core.On("CheckTransaction", "other-1").Return(&coreapi.TransactionStatusResponse{TransactionStatus: "pending"}, nil)
	f.payments.On("UpdateByOrderID", mock.Anything, "other-1", mock.Anything).Return(paymentRepo.ErrNotFound)

	res := f.svc.MidtransCallback(map[string]any{
		"order_id":      "other-1",
		"status_code":   "200",
		"gross_amount":  "1.00",
		"signature_key": sig,
	})
	assert.Equal(t, http.StatusOK, res.Code)
}

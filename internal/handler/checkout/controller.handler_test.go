package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront-checkout/internal/common/enum"
	types "storefront-checkout/internal/common/type"
	"storefront-checkout/internal/pkg/middleware"
	checkoutService "storefront-checkout/internal/service/checkout"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockService struct {
	checkoutService.IService
	mock.Mock
}

func (m *mockService) StartCheckout(user *types.UserWithAuth, req *checkoutService.StartRequest) *types.Response {
	return m.Called(user.Email, req.CartID).Get(0).(*types.Response)
}

func (m *mockService) Navigate(user *types.UserWithAuth, req *checkoutService.NavigateRequest) *types.Response {
	return m.Called(*req.Step).Get(0).(*types.Response)
}

func (m *mockService) ElementChange(user *types.UserWithAuth, kind enum.ElementKindEnum, req *checkoutService.ElementChangeRequest) *types.Response {
	return m.Called(kind, req.Complete).Get(0).(*types.Response)
}

func (m *mockService) Finalize(user *types.UserWithAuth) *types.Response {
	return m.Called(user.Email).Get(0).(*types.Response)
}

var buyer = types.UserWithAuth{ID: uuid.New(), Email: "buyer@test.com"}

func authAs(user *types.UserWithAuth) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(types.AuthContextKey, *user)
		}
		c.Next()
	}
}

func newEngine(svc checkoutService.IService, user *types.UserWithAuth) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.Use(middleware.RequestInit())
	NewHandler(context.Background(), svc).NewRoutes(e.Group("/api"), authAs(user))
	return e
}

func do(e *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestStartBindsCart(t *testing.T) {
	svc := &mockService{}
	svc.On("StartCheckout", "buyer@test.com", "cart-1").
		Return(&types.Response{Code: http.StatusCreated, Message: "Checkout started"})

	w := do(newEngine(svc, &buyer), http.MethodPost, "/api/v1/checkout", `{"cartId":"cart-1"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "Checkout started")
	svc.AssertExpectations(t)
}

func TestStartRejectsMissingCart(t *testing.T) {
	svc := &mockService{}

	w := do(newEngine(svc, &buyer), http.MethodPost, "/api/v1/checkout", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "StartCheckout", mock.Anything, mock.Anything)
}

func TestNavigateValidatesStepRange(t *testing.T) {
	svc := &mockService{}
	svc.On("Navigate", 0).Return(&types.Response{Message: "OK"})
	e := newEngine(svc, &buyer)

	assert.Equal(t, http.StatusOK, do(e, http.MethodPut, "/api/v1/checkout/step", `{"step":0}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPut, "/api/v1/checkout/step", `{"step":4}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodPut, "/api/v1/checkout/step", `{}`).Code)
	svc.AssertNumberOfCalls(t, "Navigate", 1)
}

func TestElementChangeRejectsUnknownKind(t *testing.T) {
	svc := &mockService{}
	svc.On("ElementChange", enum.PAYMENT_ELEMENT, true).Return(&types.Response{Message: "OK"})
	e := newEngine(svc, &buyer)

	w := do(e, http.MethodPost, "/api/v1/checkout/elements/iban/change", `{"complete":true}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "unknown element")

	w = do(e, http.MethodPost, "/api/v1/checkout/elements/payment/change", `{"complete":true}`)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestFinalizeRequiresUser(t *testing.T) {
	svc := &mockService{}

	w := do(newEngine(svc, nil), http.MethodPost, "/api/v1/checkout/finalize", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "Finalize", mock.Anything)
}

func TestFinalizePassesThroughPaymentFailure(t *testing.T) {
	svc := &mockService{}
	svc.On("Finalize", "buyer@test.com").
		Return(&types.Response{Code: http.StatusPaymentRequired, Message: "Your card was declined."})

	w := do(newEngine(svc, &buyer), http.MethodPost, "/api/v1/checkout/finalize", "")

	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "Your card was declined.")
}

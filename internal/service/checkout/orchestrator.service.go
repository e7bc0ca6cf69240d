package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"storefront-checkout/internal/common/enum"
	"storefront-checkout/internal/common/models"
	"storefront-checkout/internal/pkg/metrics"
	"storefront-checkout/internal/service/payment"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

const (
	AddressElementTarget = "#address-element"
	PaymentElementTarget = "#payment-element"
	SuccessPath          = "/checkout/success"

	msgUnableToCreateOrder = "Unable to create order"
	msgOrderCreationFailed = "Order creation failed"
	msgSomethingWentWrong  = "Something went wrong."
)

var (
	ErrSessionClosed         = errors.New("checkout session is closed")
	ErrCheckoutComplete      = errors.New("checkout is already complete")
	ErrFinalizeInProgress    = errors.New("finalize already in progress")
	ErrInvalidStep           = errors.New("invalid checkout step")
	ErrNoCart                = errors.New("no cart in checkout")
	ErrUnknownDeliveryMethod = errors.New("unknown delivery method")
	ErrUnknownElement        = errors.New("unknown element")
)

// CartStore is the session's shared cart state.
type CartStore interface {
	Cart() *models.Cart
	SetCart(ctx context.Context, c *models.Cart) error
	ClearCart(ctx context.Context) error
	SelectedDelivery() *models.DeliveryMethod
	SetSelectedDelivery(m *models.DeliveryMethod)
}

type DeliveryCatalog interface {
	ListDeliveryMethods(ctx context.Context) ([]models.DeliveryMethod, error)
}

type AccountGateway interface {
	UpdateAddress(ctx context.Context, address *models.Address) error
}

type OrderGateway interface {
	CreateOrder(ctx context.Context, toCreate *models.OrderToCreate) (*models.Order, error)
}

type PaymentProvider interface {
	CreateAddressElement(ctx context.Context) (payment.IElement, error)
	CreatePaymentElement(ctx context.Context) (payment.IElement, error)
	CreateOrUpdatePaymentIntent(ctx context.Context) error
	CreateConfirmationToken(ctx context.Context) (*models.ConfirmationToken, error)
	ConfirmPayment(ctx context.Context, token *models.ConfirmationToken) (*models.PaymentIntentResult, error)
	DisposeElements()
}

// Notifier is the hosting UI surface. Implementations must be safe for concurrent use.
type Notifier interface {
	Error(msg string)
	Warning(msg string)
	DeliveryComplete(complete bool)
	CompletionChanged(status CompletionStatus)
	Navigate(path string)
}

type Deps struct {
	Cart     CartStore
	Catalog  DeliveryCatalog
	Account  AccountGateway
	Orders   OrderGateway
	Provider PaymentProvider
	UI       Notifier
	Metrics  *metrics.CheckoutMetrics
	Log      *zap.Logger

	FinalizeTimeout time.Duration
	AddressTimeout  time.Duration
}

// Orchestrator drives one checkout session. Events (navigation, selection, element
// changes, finalize) are applied one at a time under seq; mu guards the fields read
// by Snapshot so it never waits on a network call.
type Orchestrator struct {
	deps Deps
	log  *zap.Logger

	seq sync.Mutex

	mu            sync.RWMutex
	state         enum.CheckoutStateEnum
	completion    CompletionStatus
	saveAddress   bool
	token         *models.ConfirmationToken
	methods       []models.DeliveryMethod
	orderComplete bool
	order         *models.Order
	lastError     string
	navigated     bool
	closed        bool

	initialized bool
	addressEl   payment.IElement
	paymentEl   payment.IElement

	busy        atomic.Bool
	background  sync.WaitGroup
	disposeOnce sync.Once
}

func NewOrchestrator(deps Deps) *Orchestrator {
	if deps.FinalizeTimeout <= 0 {
		deps.FinalizeTimeout = time.Minute
	}
	if deps.AddressTimeout <= 0 {
		deps.AddressTimeout = 10 * time.Second
	}
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		deps:  deps,
		log:   log,
		state: enum.DELIVERY_SELECTION,
	}
}

// Init creates and mounts both elements, subscribes to their changes and resumes a
// delivery method already stored on the cart.
func (o *Orchestrator) Init(ctx context.Context) error {
	o.seq.Lock()
	defer o.seq.Unlock()
	if o.isClosed() {
		return ErrSessionClosed
	}
	if o.initialized {
		return nil
	}

	addressEl, err := o.mountElement(ctx, enum.ADDRESS_ELEMENT)
	if err != nil {
		o.surface(err)
		return err
	}
	paymentEl, err := o.mountElement(ctx, enum.PAYMENT_ELEMENT)
	if err != nil {
		o.surface(err)
		return err
	}
	o.addressEl, o.paymentEl = addressEl, paymentEl
	o.initialized = true

	o.resumeDelivery(ctx)
	return nil
}

func (o *Orchestrator) mountElement(ctx context.Context, kind enum.ElementKindEnum) (payment.IElement, error) {
	var (
		el     payment.IElement
		err    error
		target string
	)
	if kind == enum.ADDRESS_ELEMENT {
		el, err = o.deps.Provider.CreateAddressElement(ctx)
		target = AddressElementTarget
	} else {
		el, err = o.deps.Provider.CreatePaymentElement(ctx)
		target = PaymentElementTarget
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s element: %w", kind.ToString(), err)
	}
	if err := el.Mount(target); err != nil {
		return nil, fmt.Errorf("failed to mount %s element: %w", kind.ToString(), err)
	}
	if err := el.On(payment.EventChange, o.onElementChange(kind)); err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s element: %w", kind.ToString(), err)
	}
	return el, nil
}

// onElementChange mirrors the widget's own completeness signal into the completion status.
func (o *Orchestrator) onElementChange(kind enum.ElementKindEnum) payment.ChangeHandler {
	return func(ev models.ElementChangeEvent) {
		o.seq.Lock()
		defer o.seq.Unlock()
		if o.isClosed() {
			return
		}

		o.mu.Lock()
		if kind == enum.ADDRESS_ELEMENT {
			o.completion.Address = ev.Complete
		} else {
			o.completion.Card = ev.Complete
		}
		o.token = nil
		status := o.completion
		o.mu.Unlock()

		o.deps.UI.CompletionChanged(status)
	}
}

// Element returns a mounted element so client widget changes can be forwarded to it.
func (o *Orchestrator) Element(kind enum.ElementKindEnum) (payment.IElement, error) {
	o.seq.Lock()
	defer o.seq.Unlock()
	if o.isClosed() {
		return nil, ErrSessionClosed
	}
	switch {
	case kind == enum.ADDRESS_ELEMENT && o.addressEl != nil:
		return o.addressEl, nil
	case kind == enum.PAYMENT_ELEMENT && o.paymentEl != nil:
		return o.paymentEl, nil
	}
	return nil, ErrUnknownElement
}

func (o *Orchestrator) resumeDelivery(ctx context.Context) {
	methods, err := o.catalog(ctx)
	if err != nil {
		o.log.Warn("delivery catalog unavailable", zap.Error(err))
		o.deps.UI.Warning("Unable to load delivery methods")
		return
	}

	c := o.deps.Cart.Cart()
	if c == nil || c.DeliveryMethodID == nil {
		return
	}
	m, ok := lo.Find(methods, func(m models.DeliveryMethod) bool { return m.ID == *c.DeliveryMethodID })
	if !ok {
		// the stored id no longer matches the catalog; drop it so the cart stays consistent
		c.DeliveryMethodID = nil
		if err := o.deps.Cart.SetCart(ctx, c); err != nil {
			o.log.Warn("failed to clear stale delivery method", zap.Error(err))
		}
		return
	}

	o.deps.Cart.SetSelectedDelivery(&m)
	status := o.markDelivery()
	o.deps.UI.DeliveryComplete(true)
	o.deps.UI.CompletionChanged(status)
}

func (o *Orchestrator) catalog(ctx context.Context) ([]models.DeliveryMethod, error) {
	o.mu.RLock()
	cached := o.methods
	o.mu.RUnlock()
	if len(cached) > 0 {
		return cached, nil
	}

	methods, err := o.deps.Catalog.ListDeliveryMethods(ctx)
	if err != nil {
		return nil, err
	}
	o.mu.Lock()
	o.methods = methods
	o.mu.Unlock()
	return methods, nil
}

func (o *Orchestrator) markDelivery() CompletionStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.completion.Delivery = true
	o.token = nil
	return o.completion
}

// SelectDelivery records the buyer's delivery choice. The cart is persisted before
// the step is reported complete.
func (o *Orchestrator) SelectDelivery(ctx context.Context, id uint) error {
	o.seq.Lock()
	defer o.seq.Unlock()
	if err := o.acceptingEvents(); err != nil {
		return err
	}

	c := o.deps.Cart.Cart()
	if c == nil {
		return ErrNoCart
	}
	methods, err := o.catalog(ctx)
	if err != nil {
		o.surface(err)
		return err
	}
	m, ok := lo.Find(methods, func(m models.DeliveryMethod) bool { return m.ID == id })
	if !ok {
		return ErrUnknownDeliveryMethod
	}

	previous := o.deps.Cart.SelectedDelivery()
	o.deps.Cart.SetSelectedDelivery(&m)
	c.DeliveryMethodID = &m.ID
	if err := o.deps.Cart.SetCart(ctx, c); err != nil {
		o.deps.Cart.SetSelectedDelivery(previous)
		o.surface(err)
		return err
	}

	status := o.markDelivery()
	o.deps.UI.DeliveryComplete(true)
	o.deps.UI.CompletionChanged(status)
	return nil
}

func (o *Orchestrator) SetSaveAddress(save bool) error {
	o.seq.Lock()
	defer o.seq.Unlock()
	if err := o.acceptingEvents(); err != nil {
		return err
	}
	o.mu.Lock()
	o.saveAddress = save
	o.mu.Unlock()
	return nil
}

// Navigate moves the stepper to step (0..3), running the entry action of the target.
// A failing entry action leaves the session on its current step.
func (o *Orchestrator) Navigate(ctx context.Context, step int) error {
	target := enum.CheckoutStateEnum(step)
	if !target.IsStep() {
		return ErrInvalidStep
	}

	o.seq.Lock()
	defer o.seq.Unlock()
	if err := o.acceptingEvents(); err != nil {
		return err
	}

	switch target {
	case enum.ADDRESS_CAPTURE:
		o.mu.RLock()
		save := o.saveAddress
		o.mu.RUnlock()
		if save {
			o.persistAddress(ctx)
		}
	case enum.PAYMENT_CAPTURE:
		if err := o.deps.Provider.CreateOrUpdatePaymentIntent(ctx); err != nil {
			o.surface(err)
			return err
		}
	case enum.REVIEW:
		if err := o.refreshToken(ctx); err != nil {
			o.surface(err)
			return err
		}
	}

	o.transition(target)
	return nil
}

// persistAddress saves the widget's current address in the background. Failures are
// reported as warnings and never block navigation.
func (o *Orchestrator) persistAddress(ctx context.Context) {
	address, err := readAddress(ctx, o.addressEl)
	if err != nil || address == nil {
		return
	}

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.deps.AddressTimeout)
	o.background.Add(1)
	go func() {
		defer o.background.Done()
		defer cancel()
		if err := o.deps.Account.UpdateAddress(bg, models.AddressFromShipping(address)); err != nil {
			o.log.Warn("address update failed", zap.Error(err))
			o.deps.UI.Warning("Unable to save your address")
		}
	}()
}

// refreshToken drops any held token and requests a new one only when every input is
// complete. The intent is resized first so the token always charges the current total.
func (o *Orchestrator) refreshToken(ctx context.Context) error {
	o.mu.Lock()
	o.token = nil
	ready := AllComplete(o.completion)
	o.mu.Unlock()
	if !ready {
		return nil
	}

	if err := o.deps.Provider.CreateOrUpdatePaymentIntent(ctx); err != nil {
		return err
	}
	tok, err := o.deps.Provider.CreateConfirmationToken(ctx)
	if err != nil {
		return err
	}
	o.mu.Lock()
	o.token = tok
	o.mu.Unlock()
	return nil
}

// Finalize confirms payment with the held token and places the order. Without a
// token it does nothing. Any failure is surfaced and the session returns to Review
// with the token kept for a retry.
func (o *Orchestrator) Finalize(ctx context.Context) error {
	if !o.busy.CompareAndSwap(false, true) {
		return ErrFinalizeInProgress
	}
	defer o.busy.Store(false)

	o.seq.Lock()
	defer o.seq.Unlock()
	if err := o.acceptingEvents(); err != nil {
		return err
	}

	o.mu.RLock()
	tok := o.token
	o.mu.RUnlock()
	if tok == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.deps.FinalizeTimeout)
	defer cancel()

	started := time.Now()
	o.transition(enum.SUBMITTING)

	order, msg := o.submit(ctx, tok)
	if msg != "" {
		o.mu.Lock()
		o.lastError = msg
		o.mu.Unlock()
		o.transition(enum.FAILED)
		o.deps.UI.Error(msg)
		o.transition(enum.REVIEW)
		o.deps.Metrics.Finalized("failed", time.Since(started))
		return &FinalizeError{Message: msg}
	}

	o.mu.Lock()
	o.orderComplete = true
	o.order = order
	o.lastError = ""
	o.token = nil
	o.mu.Unlock()

	if err := o.deps.Cart.ClearCart(ctx); err != nil {
		o.log.Error("failed to clear cart after order", zap.Uint("order_id", order.ID), zap.Error(err))
		o.deps.UI.Warning("Your order was placed, but your cart could not be emptied")
	}
	o.deps.Cart.SetSelectedDelivery(nil)
	o.transition(enum.SUCCESS)
	o.navigateOnce(SuccessPath)
	o.deps.Metrics.Finalized("succeeded", time.Since(started))
	return nil
}

// submit is the finalize pipeline. It returns the placed order, or the message to show.
func (o *Orchestrator) submit(ctx context.Context, tok *models.ConfirmationToken) (*models.Order, string) {
	result, err := o.deps.Provider.ConfirmPayment(ctx, tok)
	if err != nil {
		o.log.Warn("payment confirmation failed", zap.Error(err))
		return nil, userMessage(err)
	}
	if result == nil || result.Status != enum.INTENT_SUCCEEDED {
		if result != nil {
			o.log.Warn("payment not settled", zap.String("status", result.Status.ToString()))
		}
		return nil, msgSomethingWentWrong
	}

	toCreate, err := o.buildOrder(ctx, tok)
	if err != nil {
		o.log.Error("order model incomplete", zap.Error(err))
		return nil, msgUnableToCreateOrder
	}

	order, err := o.deps.Orders.CreateOrder(ctx, toCreate)
	if err != nil {
		o.log.Error("order submission failed", zap.Error(err))
		return nil, msgOrderCreationFailed
	}
	if order == nil {
		return nil, msgOrderCreationFailed
	}
	return order, ""
}

var errIncompleteOrder = errors.New("order data incomplete")

// buildOrder re-reads the address widget and takes the card summary from the token.
func (o *Orchestrator) buildOrder(ctx context.Context, tok *models.ConfirmationToken) (*models.OrderToCreate, error) {
	c := o.deps.Cart.Cart()
	address, err := readAddress(ctx, o.addressEl)
	if err != nil {
		return nil, err
	}
	card := tok.PaymentMethodPreview.Card
	if c == nil || address == nil || card == nil || c.DeliveryMethodID == nil {
		return nil, errIncompleteOrder
	}
	last4, err := strconv.Atoi(card.Last4)
	if err != nil {
		return nil, fmt.Errorf("%w: last4 %q", errIncompleteOrder, card.Last4)
	}

	return &models.OrderToCreate{
		CartID:           c.ID,
		DeliveryMethodID: *c.DeliveryMethodID,
		ShippingAddress:  *address,
		PaymentSummary: models.PaymentSummary{
			Last4:    last4,
			Brand:    card.Brand,
			ExpMonth: card.ExpMonth,
			ExpYear:  card.ExpYear,
		},
	}, nil
}

func (o *Orchestrator) navigateOnce(path string) {
	o.mu.Lock()
	first := !o.navigated
	o.navigated = true
	o.mu.Unlock()
	if first {
		o.deps.UI.Navigate(path)
	}
}

// Dispose tears the session down once: elements are disposed, listeners detached and
// background address updates are awaited.
func (o *Orchestrator) Dispose() {
	o.disposeOnce.Do(func() {
		o.seq.Lock()
		o.mu.Lock()
		o.closed = true
		o.mu.Unlock()
		o.deps.Provider.DisposeElements()
		o.seq.Unlock()

		o.background.Wait()
	})
}

func (o *Orchestrator) isClosed() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.closed
}

func (o *Orchestrator) acceptingEvents() error {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		return ErrSessionClosed
	}
	if o.orderComplete || o.state.IsTerminal() {
		return ErrCheckoutComplete
	}
	return nil
}

func (o *Orchestrator) transition(to enum.CheckoutStateEnum) {
	o.mu.Lock()
	from := o.state
	o.state = to
	o.mu.Unlock()
	o.deps.Metrics.Transition(to.ToString())
	o.log.Debug("checkout transition", zap.Stringer("from", from), zap.Stringer("to", to))
}

func (o *Orchestrator) surface(err error) {
	msg := userMessage(err)
	o.mu.Lock()
	o.lastError = msg
	o.mu.Unlock()
	o.deps.UI.Error(msg)
}

// userMessage extracts the provider's message when there is one. Other failures get a
// generic message; their detail goes to the log.
func userMessage(err error) string {
	var perr *models.ProviderError
	if errors.As(err, &perr) && perr.Message != "" {
		return perr.Message
	}
	return msgSomethingWentWrong
}

// FinalizeError carries the message shown to the buyer after a failed finalize.
type FinalizeError struct {
	Message string
}

func (e *FinalizeError) Error() string {
	return e.Message
}

// State is a consistent read of the orchestrator's fields.
type State struct {
	State         enum.CheckoutStateEnum
	Completion    CompletionStatus
	SaveAddress   bool
	Token         *models.ConfirmationToken
	Methods       []models.DeliveryMethod
	Busy          bool
	OrderComplete bool
	Order         *models.Order
	LastError     string
}

// Snapshot never waits on an in-flight event.
func (o *Orchestrator) Snapshot() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return State{
		State:         o.state,
		Completion:    o.completion,
		SaveAddress:   o.saveAddress,
		Token:         o.token,
		Methods:       append([]models.DeliveryMethod(nil), o.methods...),
		Busy:          o.busy.Load(),
		OrderComplete: o.orderComplete,
		Order:         o.order,
		LastError:     o.lastError,
	}
}

package payment

import (
	"context"
	"errors"
	"sync"

	"storefront-checkout/internal/common/enum"
	"storefront-checkout/internal/common/models"
)

const EventChange = "change"

var (
	ErrElementDisposed   = errors.New("element has been disposed")
	ErrElementNotMounted = errors.New("element is not mounted")
	ErrUnknownEvent      = errors.New("unknown element event")
)

type ChangeHandler func(ev models.ElementChangeEvent)

// IElement is the server-side handle of a hosted capture widget.
type IElement interface {
	Kind() enum.ElementKindEnum
	Mount(target string) error
	On(event string, h ChangeHandler) error
	GetValue(ctx context.Context) (*models.ElementValue, error)
	Emit(ev models.ElementChangeEvent) error
	Dispose()
}

type Element struct {
	mu       sync.Mutex
	kind     enum.ElementKindEnum
	target   string
	mounted  bool
	disposed bool
	value    models.ElementValue
	handlers []ChangeHandler
}

// NewElement returns an unmounted element.
func NewElement(kind enum.ElementKindEnum) *Element {
	return &Element{kind: kind}
}

func (e *Element) Kind() enum.ElementKindEnum {
	return e.kind
}

func (e *Element) Mount(target string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return ErrElementDisposed
	}
	e.target = target
	e.mounted = true
	return nil
}

func (e *Element) On(event string, h ChangeHandler) error {
	if event != EventChange {
		return ErrUnknownEvent
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return ErrElementDisposed
	}
	e.handlers = append(e.handlers, h)
	return nil
}

// GetValue returns a copy of the widget's latest reported value.
func (e *Element) GetValue(_ context.Context) (*models.ElementValue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return nil, ErrElementDisposed
	}
	v := e.value
	if v.Address != nil {
		a := *v.Address
		v.Address = &a
	}
	if v.Card != nil {
		c := *v.Card
		v.Card = &c
	}
	return &v, nil
}

// Emit records a change reported by the client widget and notifies subscribers.
// Handlers run on the caller's goroutine, after the element lock is released.
func (e *Element) Emit(ev models.ElementChangeEvent) error {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return ErrElementDisposed
	}
	if !e.mounted {
		e.mu.Unlock()
		return ErrElementNotMounted
	}
	ev.ElementType = e.kind
	if ev.Value != nil {
		e.value = *ev.Value
	}
	e.value.Complete = ev.Complete
	handlers := append([]ChangeHandler(nil), e.handlers...)
	e.mu.Unlock()

	for _, h := range handlers {
		h(ev)
	}
	return nil
}

// Dispose unmounts the element and detaches every listener.
func (e *Element) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disposed = true
	e.mounted = false
	e.handlers = nil
}

package serverApp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-checkout/internal/pkg/logger"
	"storefront-checkout/internal/pkg/rabbitmq"
	orderService "storefront-checkout/internal/service/order"
	paymentService "storefront-checkout/internal/service/payment"
	receiptService "storefront-checkout/internal/service/receipt"

	"github.com/panjf2000/ants/v2"
	amqp "github.com/rabbitmq/amqp091-go"
)

// InitWorker starts the queue subscribers on a shared pool and returns a function
// that stops them.
func InitWorker(
	ctx context.Context,
	rb *rabbitmq.ConnectionManager,
	payments paymentService.IService,
	receipts receiptService.IService,
) (func(), error) {
	poolOpts := ants.Options{
		ExpiryDuration: time.Hour,
		PreAlloc:       true,
		Nonblocking:    true,
		PanicHandler: func(i interface{}) {
			logger.Error.Printf("Worker panic: %v\n", i)
		},
	}

	pool, err := ants.NewPool(10, ants.WithOptions(poolOpts))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}

	receiptOpts := rabbitmq.DefaultSubscribeOptions(rabbitmq.QueueOrderCreated)
	reconcileOpts := rabbitmq.DefaultSubscribeOptions(rabbitmq.QueuePaymentReconcile)
	reconcileOpts.RetryStrategy = rabbitmq.LinearRetry
	reconcileOpts.BaseRetryDelay = 30 * time.Second
	reconcileOpts.MaxRetryAttempts = 20

	subscribers := make([]*rabbitmq.Subscriber, 0, 2)
	for _, s := range []struct {
		handler rabbitmq.MessageHandler
		opts    *rabbitmq.SubscribeOptions
	}{
		{OrderCreatedHandler(receipts), receiptOpts},
		{ReconcileHandler(payments), reconcileOpts},
	} {
		sub, err := rabbitmq.NewSubscriber(ctx, rb, s.handler, s.opts)
		if err != nil {
			pool.Release()
			return nil, fmt.Errorf("failed to create subscriber for %s: %w", s.opts.QueueName, err)
		}
		subscribers = append(subscribers, sub)
	}

	for _, sub := range subscribers {
		sub := sub
		err = pool.Submit(func() {
			if err := sub.Start(); err != nil {
				logger.Error.Printf("Failed to initialize worker: %v\n", err)
			}
		})
		if err != nil {
			pool.Release()
			return nil, fmt.Errorf("failed to submit task to pool: %w", err)
		}
	}

	stop := func() {
		for _, sub := range subscribers {
			if err := sub.Stop(); err != nil {
				logger.Warning.Printf("Failed to stop subscriber: %v\n", err)
			}
		}
		pool.Release()
	}
	return stop, nil
}

// OrderCreatedHandler archives a receipt for every placed order.
func OrderCreatedHandler(receipts receiptService.IService) rabbitmq.MessageHandler {
	return func(ctx context.Context, msg *amqp.Delivery) error {
		pattern, ev, err := rabbitmq.DecodeEvent[orderService.CreatedEvent](msg.Body)
		if err != nil {
			logger.Warning.Printf("Dropping malformed order event: %v", err)
			return rabbitmq.ErrDiscard
		}
		if pattern != orderService.PatternOrderCreated {
			return rabbitmq.ErrDiscard
		}
		return receipts.Archive(ctx, ev)
	}
}

// ReconcileHandler re-checks a pending charge; while it is still pending the
// message is retried.
func ReconcileHandler(payments paymentService.IService) rabbitmq.MessageHandler {
	return func(ctx context.Context, msg *amqp.Delivery) error {
		pattern, ev, err := rabbitmq.DecodeEvent[paymentService.ReconcileEvent](msg.Body)
		if err != nil || ev.OrderID == "" {
			logger.Warning.Printf("Dropping malformed reconcile event: %v", err)
			return rabbitmq.ErrDiscard
		}
		if pattern != paymentService.PatternReconcile {
			return rabbitmq.ErrDiscard
		}

		err = payments.Reconcile(ctx, ev.OrderID)
		if errors.Is(err, paymentService.ErrStillPending) {
			logger.Debug.Printf("Payment %s still pending", ev.OrderID)
		}
		return err
	}
}

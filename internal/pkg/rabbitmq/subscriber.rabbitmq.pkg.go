package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"storefront-checkout/internal/pkg/logger"

	"github.com/panjf2000/ants/v2"
	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler processes one delivery. Returning an error schedules a retry.
type MessageHandler func(ctx context.Context, msg *amqp.Delivery) error

// ErrDiscard tells the subscriber to drop a message without retrying it.
var ErrDiscard = errors.New("discard message")

type RetryStrategy string

const (
	FixedRetry       RetryStrategy = "fixed"
	ExponentialRetry RetryStrategy = "exponential"
	LinearRetry      RetryStrategy = "linear"
)

type SubscribeOptions struct {
	QueueOpts        *QueueConfig
	QueueName        string
	ConsumerName     string
	WorkerCount      int
	PrefetchCount    int
	MaxRetryAttempts int
	EnableDeadLetter bool
	DeadLetterName   string
	RetryStrategy    RetryStrategy
	BaseRetryDelay   time.Duration
	MaxRetryDelay    time.Duration
	HandlerTimeout   time.Duration
}

func DefaultSubscribeOptions(queueName string) *SubscribeOptions {
	return &SubscribeOptions{
		QueueName:        queueName,
		ConsumerName:     queueName,
		WorkerCount:      3,
		PrefetchCount:    10,
		MaxRetryAttempts: 5,
		EnableDeadLetter: true,
		DeadLetterName:   "fail:" + queueName,
		RetryStrategy:    ExponentialRetry,
		BaseRetryDelay:   time.Second * 5,
		MaxRetryDelay:    time.Minute * 10,
		HandlerTimeout:   time.Minute,
	}
}

type Subscriber struct {
	connManager     *ConnectionManager
	channelManagers []*ChannelManager
	handler         MessageHandler
	opts            *SubscribeOptions
	ctx             context.Context
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	isRunning       atomic.Bool
	pool            *ants.Pool
}

func NewSubscriber(ctx context.Context, connManager *ConnectionManager, handler MessageHandler, opts *SubscribeOptions) (*Subscriber, error) {
	ctx, cancel := context.WithCancel(ctx)

	pool, err := ants.NewPool(opts.WorkerCount, ants.WithOptions(ants.Options{
		ExpiryDuration: time.Hour,
		PreAlloc:       true,
		Nonblocking:    true,
		PanicHandler: func(i interface{}) {
			logger.Error.Printf("Subscriber %s worker panic: %v", opts.QueueName, i)
		},
	}))
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create %s worker pool: %w", opts.QueueName, err)
	}

	sub := &Subscriber{
		connManager:     connManager,
		handler:         handler,
		opts:            opts,
		ctx:             ctx,
		cancel:          cancel,
		channelManagers: make([]*ChannelManager, opts.WorkerCount),
		pool:            pool,
	}

	for i := 0; i < opts.WorkerCount; i++ {
		sub.channelManagers[i] = NewChannelManager(ctx, connManager)
	}

	return sub, nil
}

func (s *Subscriber) Start() error {
	if s.isRunning.Swap(true) {
		return fmt.Errorf("subscriber is already running")
	}
	for i := 0; i < s.opts.WorkerCount; i++ {
		workerID := i
		s.wg.Add(1)
		if err := s.pool.Submit(func() { s.runWorker(workerID) }); err != nil {
			s.wg.Done()
			return fmt.Errorf("failed to start worker %d: %w", workerID, err)
		}
	}
	return nil
}

func (s *Subscriber) runWorker(workerID int) {
	defer s.wg.Done()

	var wait time.Duration
	for s.isRunning.Load() && s.ctx.Err() == nil {
		if err := s.consume(workerID); err != nil {
			wait = min(max(2*wait, time.Second), 30*time.Second)
			logger.Warning.Printf("Worker %d on %s consume error: %v. Retrying in %v", workerID, s.opts.QueueName, err, wait)
			select {
			case <-time.After(wait):
			case <-s.ctx.Done():
			}
			continue
		}
		wait = 0
	}
}

func (s *Subscriber) declareQueue(ch *amqp.Channel) (*amqp.Queue, error) {
	if err := ch.Qos(s.opts.PrefetchCount, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	cfg := s.opts.QueueOpts
	if cfg == nil {
		cfg = DefaultQueueConfig()
	}

	q, err := ch.QueueDeclare(s.opts.QueueName, cfg.Durable, cfg.AutoDelete, cfg.Exclusive, cfg.NoWait, cfg.Args)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}
	return &q, nil
}

func (s *Subscriber) consume(workerID int) error {
	ch, err := s.channelManagers[workerID].GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	q, err := s.declareQueue(ch)
	if err != nil {
		return err
	}

	consumerName := fmt.Sprintf("%s-%d-%d", s.opts.ConsumerName, workerID, time.Now().Unix())
	msgs, err := ch.ConsumeWithContext(s.ctx, q.Name, consumerName, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming %d: %w", workerID, err)
	}

	for msg := range msgs {
		if err := s.processMessage(workerID, &msg); err != nil {
			logger.Error.Printf("Worker %d failed to process message %s: %v", workerID, msg.MessageId, err)
		}
	}
	return nil
}

type outcome int

const (
	ack outcome = iota
	retry
	deadLetter
	reject
)

// settle decides what happens to a delivery whose handler returned err on the given
// zero-based attempt.
func (s *Subscriber) settle(err error, attempt int) outcome {
	switch {
	case err == nil, errors.Is(err, ErrDiscard):
		return ack
	case attempt < s.opts.MaxRetryAttempts:
		return retry
	case s.opts.EnableDeadLetter:
		return deadLetter
	}
	return reject
}

func (s *Subscriber) processMessage(workerID int, msg *amqp.Delivery) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.HandlerTimeout)
	defer cancel()

	err := s.handler(ctx, msg)
	attempt := retryCount(msg)

	switch s.settle(err, attempt) {
	case ack:
		if err != nil {
			logger.Warning.Printf("Worker %d discarding message %s: %v", workerID, msg.MessageId, err)
		}
		return msg.Ack(false)
	case deadLetter:
		return s.moveToDeadLetter(workerID, msg, err)
	case reject:
		return msg.Reject(false)
	}

	if retryErr := s.republishWithDelay(workerID, msg, attempt+1); retryErr != nil {
		return fmt.Errorf("failed to republish message with delay: %w", retryErr)
	}
	return fmt.Errorf("handler error on attempt %d: %w", attempt+1, err)
}

func retryCount(msg *amqp.Delivery) int {
	count := 0
	if v, ok := msg.Headers["x-retry-count"]; ok {
		switch n := v.(type) {
		case int:
			count = n
		case int32:
			count = int(n)
		case int64:
			count = int(n)
		}
	}
	if msg.Redelivered && count == 0 {
		count = 1
	}
	return count
}

func clonePublishing(msg *amqp.Delivery) amqp.Publishing {
	return amqp.Publishing{
		Headers:         msg.Headers,
		ContentType:     msg.ContentType,
		ContentEncoding: msg.ContentEncoding,
		DeliveryMode:    msg.DeliveryMode,
		Priority:        msg.Priority,
		CorrelationId:   msg.CorrelationId,
		MessageId:       msg.MessageId,
		Timestamp:       msg.Timestamp,
		Type:            msg.Type,
		AppId:           msg.AppId,
		Body:            msg.Body,
	}
}

func (s *Subscriber) republishWithDelay(workerID int, msg *amqp.Delivery, attempt int) error {
	if msg.Headers == nil {
		msg.Headers = amqp.Table{}
	}
	msg.Headers["x-retry-count"] = int32(attempt)
	publishing := clonePublishing(msg)
	delay := s.calculateRetryDelay(attempt)

	if err := msg.Ack(false); err != nil {
		return fmt.Errorf("failed to acknowledge original message: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-s.ctx.Done():
			return
		}

		ch, err := s.channelManagers[workerID].GetChannel()
		if err != nil {
			logger.Error.Printf("Failed to get channel after delay: %v", err)
			return
		}
		if err := ch.PublishWithContext(s.ctx, "", s.opts.QueueName, false, false, publishing); err != nil {
			logger.Error.Printf("Failed to republish message after delay: %v", err)
		}
	}()

	return nil
}

func (s *Subscriber) moveToDeadLetter(workerID int, msg *amqp.Delivery, cause error) error {
	ch, err := s.channelManagers[workerID].GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel for dead letter: %w", err)
	}

	if _, err := ch.QueueDeclare(s.opts.DeadLetterName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead letter queue: %w", err)
	}

	if msg.Headers == nil {
		msg.Headers = amqp.Table{}
	}
	msg.Headers["x-death-reason"] = cause.Error()
	msg.Headers["x-death-time"] = time.Now().Format(time.RFC3339)
	msg.Headers["x-death-queue"] = s.opts.QueueName

	if err := ch.PublishWithContext(s.ctx, "", s.opts.DeadLetterName, false, false, clonePublishing(msg)); err != nil {
		return fmt.Errorf("failed to publish to dead letter queue: %w", err)
	}

	logger.Warning.Printf("Moved message %s to %s after %d attempts", msg.MessageId, s.opts.DeadLetterName, s.opts.MaxRetryAttempts)
	return msg.Ack(false)
}

func (s *Subscriber) calculateRetryDelay(attempt int) time.Duration {
	var delay time.Duration

	switch s.opts.RetryStrategy {
	case FixedRetry:
		delay = s.opts.BaseRetryDelay
	case LinearRetry:
		delay = s.opts.BaseRetryDelay * time.Duration(attempt)
	default:
		delay = s.opts.BaseRetryDelay * time.Duration(1<<min(attempt, 20))
	}

	return min(delay, s.opts.MaxRetryDelay)
}

func (s *Subscriber) Stop() error {
	if !s.isRunning.Swap(false) {
		return nil
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second * 60):
		return fmt.Errorf("timeout waiting for workers to stop")
	}

	for i, ch := range s.channelManagers {
		if err := ch.Close(); err != nil {
			logger.Error.Printf("Error closing channel for %s worker %d: %v", s.opts.QueueName, i, err)
		}
	}

	s.pool.Release()
	return nil
}

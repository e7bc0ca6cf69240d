package rabbitmq

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"storefront-checkout/internal/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Queues used by the checkout service.
const (
	QueueOrderCreated     = "storefront.order.created"
	QueuePaymentReconcile = "storefront.payment.reconcile"
)

type ConnectionManager struct {
	conn          *amqp.Connection
	mu            sync.Mutex
	url           string
	isConnected   bool
	retryInterval time.Duration
	ctx           context.Context
	cancel        context.CancelFunc
}

type QueueConfig struct {
	Durable    bool
	AutoDelete bool
	Exclusive  bool
	NoWait     bool
	Args       amqp.Table
}

func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{Durable: true}
}

type Config struct {
	Username string
	Password string
	Host     string
	Port     int
	VHost    string
	URI      string
}

// URL returns the AMQP url, preferring an explicit URI.
func (c *Config) URL() string {
	if c.URI != "" {
		return c.URI
	}
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.VHost,
	}
	return u.String()
}

func NewConnectionManager(ctx context.Context, config *Config) (*ConnectionManager, error) {
	ctx, cancel := context.WithCancel(ctx)

	cm := &ConnectionManager{
		url:           config.URL(),
		retryInterval: time.Second * 2,
		ctx:           ctx,
		cancel:        cancel,
	}

	if err := cm.connect(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create connection: %w", err)
	}

	return cm, nil
}

func (cm *ConnectionManager) connect() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.isConnected {
		return nil
	}

	if err := cm.ctx.Err(); err != nil {
		return fmt.Errorf("context canceled: %w", err)
	}

	conn, err := amqp.Dial(cm.url)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	cm.conn = conn
	cm.isConnected = true

	closed := conn.NotifyClose(make(chan *amqp.Error, 1))
	go cm.connectionMonitor(closed)

	return nil
}

func (cm *ConnectionManager) connectionMonitor(closed <-chan *amqp.Error) {
	select {
	case <-cm.ctx.Done():
		return
	case err, ok := <-closed:
		if !ok && cm.ctx.Err() != nil {
			return
		}
		cm.mu.Lock()
		cm.isConnected = false
		cm.mu.Unlock()
		logger.Warning.Printf("RabbitMQ connection lost: %v. Reconnecting...", err)
	}

	ticker := time.NewTicker(cm.retryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cm.ctx.Done():
			return
		case <-ticker.C:
		}

		if err := cm.connect(); err != nil {
			logger.Warning.Printf("Failed to reconnect: %v. Retrying in %v", err, cm.retryInterval)
			continue
		}

		logger.Info.Println("RabbitMQ reconnected")
		return
	}
}

func (cm *ConnectionManager) GetConnection() *amqp.Connection {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.ctx.Err() != nil {
		return nil
	}

	return cm.conn
}

func (cm *ConnectionManager) Close() error {
	cm.cancel()

	cm.mu.Lock()
	defer cm.mu.Unlock()

	cm.isConnected = false
	if cm.conn != nil && !cm.conn.IsClosed() {
		if err := cm.conn.Close(); err != nil {
			return fmt.Errorf("failed to close connection: %w", err)
		}
	}
	cm.conn = nil
	return nil
}

func (cm *ConnectionManager) IsClosed() bool {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return cm.ctx.Err() != nil || !cm.isConnected
}

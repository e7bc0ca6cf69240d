package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrConnectionUnavailable = errors.New("rabbitmq connection unavailable")

// ChannelManager lazily opens a channel and reopens it after it is closed.
type ChannelManager struct {
	connManager *ConnectionManager
	ch          *amqp.Channel
	mu          sync.Mutex
	ctx         context.Context
}

func NewChannelManager(ctx context.Context, connManager *ConnectionManager) *ChannelManager {
	return &ChannelManager{
		connManager: connManager,
		ctx:         ctx,
	}
}

func (cm *ChannelManager) GetChannel() (*amqp.Channel, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if err := cm.ctx.Err(); err != nil {
		return nil, fmt.Errorf("context canceled: %w", err)
	}

	if cm.ch != nil && !cm.ch.IsClosed() {
		return cm.ch, nil
	}

	conn := cm.connManager.GetConnection()
	if conn == nil || conn.IsClosed() {
		return nil, ErrConnectionUnavailable
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	cm.ch = ch
	return ch, nil
}

func (cm *ChannelManager) Close() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.ch == nil || cm.ch.IsClosed() {
		cm.ch = nil
		return nil
	}
	err := cm.ch.Close()
	cm.ch = nil
	return err
}

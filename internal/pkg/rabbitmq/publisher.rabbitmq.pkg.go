package rabbitmq

import (
	"context"
	"fmt"
	"sync"

	"storefront-checkout/internal/pkg/logger"
)

// IPublisher is what services depend on to emit events.
type IPublisher interface {
	Publish(ctx context.Context, queueName string, pattern string, data any) error
}

type Publisher struct {
	channel  *ChannelManager
	declared sync.Map
}

func NewPublisher(ctx context.Context, connManager *ConnectionManager) (*Publisher, error) {
	if connManager == nil {
		return nil, ErrConnectionUnavailable
	}
	return &Publisher{
		channel: NewChannelManager(ctx, connManager),
	}, nil
}

// Publish declares queueName (once per publisher) and sends data wrapped in an Event.
func (p *Publisher) Publish(ctx context.Context, queueName string, pattern string, data any) error {
	ch, err := p.channel.GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	if _, ok := p.declared.Load(queueName); !ok {
		cfg := DefaultQueueConfig()
		if _, err := ch.QueueDeclare(queueName, cfg.Durable, cfg.AutoDelete, cfg.Exclusive, cfg.NoWait, cfg.Args); err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
		}
		p.declared.Store(queueName, struct{}{})
	}

	msg, err := NewEventMessage(pattern, data)
	if err != nil {
		return fmt.Errorf("failed to build message: %w", err)
	}

	if err := ch.PublishWithContext(ctx, "", queueName, false, false, *msg.GeneratePayload()); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queueName, err)
	}

	logger.Debug.Printf("Published %s to %s (%s)", pattern, queueName, msg.ID)
	return nil
}

func (p *Publisher) Close() error {
	return p.channel.Close()
}

// Package rabbitmqtest provides a recording rabbitmq.IPublisher for tests.
package rabbitmqtest

import (
	"context"
	"sync"
)

type Published struct {
	Queue   string
	Pattern string
	Data    any
}

type Publisher struct {
	mu   sync.Mutex
	sent []Published
	// FailWith, when set, is returned by Publish and nothing is recorded.
	FailWith error
}

func (p *Publisher) Publish(_ context.Context, queueName string, pattern string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailWith != nil {
		return p.FailWith
	}
	p.sent = append(p.sent, Published{Queue: queueName, Pattern: pattern, Data: data})
	return nil
}

func (p *Publisher) Sent() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Published(nil), p.sent...)
}

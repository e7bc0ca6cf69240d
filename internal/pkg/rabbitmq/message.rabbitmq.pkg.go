package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Event is the envelope every published payload travels in.
type Event struct {
	Pattern string `json:"type"`
	Data    any    `json:"data"`
	ID      string `json:"id"`
}

type Message struct {
	ID          string     `json:"id"`
	Body        []byte     `json:"content"`
	Payload     any        `json:"payload"`
	Headers     amqp.Table `json:"headers,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	ContentType string     `json:"content_type"`
}

func NewMessage(payload any, headers *amqp.Table) (*Message, error) {
	gid, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	id := fmt.Sprintf("msg_%s_%d", gid, time.Now().Unix())

	var body []byte
	var contentType string
	switch v := payload.(type) {
	case string:
		body = []byte(v)
		contentType = "text/plain"
	case []byte:
		body = v
		contentType = "application/octet-stream"
	default:
		body, err = json.Marshal(v)
		if err != nil {
			return nil, err
		}
		contentType = "application/json"
	}

	if headers == nil {
		headers = &amqp.Table{}
	}

	return &Message{
		ID:          id,
		Body:        body,
		Payload:     payload,
		Headers:     *headers,
		Timestamp:   time.Now(),
		ContentType: contentType,
	}, nil
}

// NewEventMessage wraps data in an Event tagged with pattern.
func NewEventMessage(pattern string, data any) (*Message, error) {
	gid, err := gonanoid.New()
	if err != nil {
		return nil, err
	}
	return NewMessage(&Event{Pattern: pattern, Data: data, ID: gid}, nil)
}

func (m *Message) GeneratePayload() *amqp.Publishing {
	m.Headers["id"] = m.ID

	return &amqp.Publishing{
		ContentType:  m.ContentType,
		Body:         m.Body,
		MessageId:    m.ID,
		Timestamp:    m.Timestamp,
		DeliveryMode: amqp.Persistent,
		Headers:      m.Headers,
	}
}

// DecodeEvent unpacks an Event body, decoding its data into T.
func DecodeEvent[T any](body []byte) (string, *T, error) {
	var raw struct {
		Pattern string          `json:"type"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", nil, fmt.Errorf("failed to decode event: %w", err)
	}
	var data T
	if err := json.Unmarshal(raw.Data, &data); err != nil {
		return raw.Pattern, nil, fmt.Errorf("failed to decode %s payload: %w", raw.Pattern, err)
	}
	return raw.Pattern, &data, nil
}

package queue

import (
	"context"
	"io"
	"time"
)

// Publisher sends messages to a topic of the message broker.
type Publisher interface {
	Publish(ctx context.Context, msgs ...Message) error
}

// Subscriber listens for messages from a topic of the message broker.
type Subscriber interface {
	Listen(h Handler)
	io.Closer
}

// Handler processes a single delivery. A nil return acknowledges the
// message; an error rejects it without requeue, which routes it to the
// dead-letter queue when the broker topology has one.
type Handler func(ctx context.Context, msg Delivery) error

// Encoder converts interface{} to []byte.
type Encoder interface {
	Encode(i any) ([]byte, error)
	ContentType() string
}

// Message is used to publish messages to the message broker.
type Message struct {
	Topic   string
	Headers map[string]string
	Body    any
	TTL     time.Duration
}

// EncodeValue converts Body to []byte using Encoder if Body != nil.
func (m *Message) EncodeValue(enc Encoder) ([]byte, error) {
	if m.Body == nil {
		return nil, nil
	}
	return enc.Encode(m.Body)
}

// Delivery is used to consume messages from the message broker.
type Delivery struct {
	Headers map[string]string
	Body    []byte
}

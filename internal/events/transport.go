package events

import (
	"context"
	"errors"
)

// ErrNoMessage is returned by a Source when a poll window elapsed without a delivery.
var ErrNoMessage = errors.New("no message available")

// Header keys attached to outgoing and dead-lettered messages.
const (
	HeaderContentType = "content-type"
	HeaderRoutingKey  = "x-routing-key"
	HeaderError       = "x-error"
)

// Message is a routed message body as seen by a transport.
type Message struct {
	RoutingKey string
	Body       []byte
	Headers    map[string]string
}

// Delivery is a received message awaiting Ack or DeadLetter.
type Delivery struct {
	Message
	ID string

	raw any
}

// Sender writes messages to the broker.
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

// Source reads messages from a durable subscription.
type Source interface {
	Fetch(ctx context.Context) (Delivery, error)
	Ack(ctx context.Context, d Delivery) error
	DeadLetter(ctx context.Context, d Delivery, reason error) error
	Close() error
}

// NoopSender discards every message.
type NoopSender struct{}

func (NoopSender) Send(context.Context, Message) error { return nil }
func (NoopSender) Close() error                        { return nil }

func deadLetterHeaders(d Delivery, reason error) map[string]string {
	headers := make(map[string]string, len(d.Headers)+2)
	for k, v := range d.Headers {
		headers[k] = v
	}
	headers[HeaderRoutingKey] = d.RoutingKey
	if reason != nil {
		headers[HeaderError] = reason.Error()
	}
	return headers
}

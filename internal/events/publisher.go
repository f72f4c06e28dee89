package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/game-catalog-service/internal/domain"
	"github.com/preston-bernstein/game-catalog-service/internal/logging"
	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
)

const contentTypeJSON = "application/json"

// Publisher encodes events and hands them to a Sender.
type Publisher struct {
	sender   Sender
	service  string
	logger   *slog.Logger
	recorder *metrics.Recorder
	now      func() time.Time
	newID    func() string
}

// NewPublisher builds a publisher stamping every envelope with service. A nil sender discards.
func NewPublisher(sender Sender, service string, logger *slog.Logger, recorder *metrics.Recorder) *Publisher {
	if sender == nil {
		sender = NoopSender{}
	}
	return &Publisher{
		sender:   sender,
		service:  service,
		logger:   logger,
		recorder: recorder,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Publish sends e under its routing key. Failures are logged and returned wrapped in domain.ErrBroker.
func (p *Publisher) Publish(ctx context.Context, e Event) error {
	key := RoutingKey(e)
	body, err := Encode(e, Meta{EventID: p.newID(), Timestamp: p.now(), Service: p.service})
	if err != nil {
		return p.fail(ctx, e, key, fmt.Errorf("%w: encode %s: %w", domain.ErrBroker, e.EventType(), err))
	}

	msg := Message{
		RoutingKey: key,
		Body:       body,
		Headers:    map[string]string{HeaderContentType: contentTypeJSON},
	}
	if err := p.sender.Send(ctx, msg); err != nil {
		return p.fail(ctx, e, key, fmt.Errorf("%w: publish %s: %w", domain.ErrBroker, key, err))
	}

	p.recorder.RecordEvent(metrics.DirectionPublish, e.EventType(), metrics.OutcomeOK)
	logging.Debug(logging.FromContext(ctx, p.logger), "event published",
		slog.String(logging.FieldEventType, e.EventType()),
		slog.String(logging.FieldRoutingKey, key),
	)
	return nil
}

// Close releases the underlying sender.
func (p *Publisher) Close() error {
	return p.sender.Close()
}

func (p *Publisher) fail(ctx context.Context, e Event, key string, err error) error {
	p.recorder.RecordEvent(metrics.DirectionPublish, e.EventType(), metrics.OutcomeError)
	logging.Error(logging.FromContext(ctx, p.logger), "event publish failed", err,
		slog.String(logging.FieldEventType, e.EventType()),
		slog.String(logging.FieldRoutingKey, key),
	)
	return err
}

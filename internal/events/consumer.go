package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/game-catalog-service/internal/logging"
	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
)

const defaultFetchBackoff = time.Second

// Handler processes one decoded event. A returned error dead-letters the message.
type Handler func(ctx context.Context, env Envelope) error

// Consumer dispatches messages from a Source to handlers registered by event type.
type Consumer struct {
	source   Source
	bindings []string
	logger   *slog.Logger
	recorder *metrics.Recorder
	backoff  time.Duration

	mu       sync.RWMutex
	handlers map[string]Handler

	runMu   sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	stopped bool
}

// NewConsumer builds a consumer over source. Empty bindings fall back to DefaultBindings.
func NewConsumer(source Source, bindings []string, logger *slog.Logger, recorder *metrics.Recorder) *Consumer {
	if len(bindings) == 0 {
		bindings = DefaultBindings
	}
	return &Consumer{
		source:   source,
		bindings: append([]string(nil), bindings...),
		logger:   logger,
		recorder: recorder,
		backoff:  defaultFetchBackoff,
		handlers: make(map[string]Handler),
	}
}

// Register installs the handler for eventType, replacing any previous one.
func (c *Consumer) Register(eventType string, h Handler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[eventType] = h
	logging.Debug(c.logger, "event handler registered", slog.String(logging.FieldEventType, eventType))
}

// Start runs the consume loop in the background until Stop or ctx cancellation.
func (c *Consumer) Start(ctx context.Context) {
	c.runMu.Lock()
	defer c.runMu.Unlock()
	if c.done != nil || c.stopped {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	go func() {
		defer close(c.done)
		if err := c.Run(runCtx); err != nil {
			logging.Error(c.logger, "event consumer exited", err)
		}
	}()
}

// Stop cancels the loop and waits for the in-flight message to finish or ctx to expire.
func (c *Consumer) Stop(ctx context.Context) error {
	c.runMu.Lock()
	c.stopped = true
	cancel, done := c.cancel, c.done
	c.runMu.Unlock()

	if cancel == nil {
		return c.source.Close()
	}
	cancel()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run consumes until ctx is cancelled, then closes the source.
// Cancellation is observed between messages; handlers never see it.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		if err := c.source.Close(); err != nil {
			logging.Warn(c.logger, "event source close failed", slog.Any(logging.FieldError, err))
		}
	}()
	logging.Info(c.logger, "event consumer started", slog.Any("bindings", c.bindings))

	for {
		if ctx.Err() != nil {
			logging.Info(c.logger, "event consumer stopped")
			return nil
		}
		d, err := c.source.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			if errors.Is(err, ErrNoMessage) {
				continue
			}
			logging.Warn(c.logger, "event fetch failed", slog.Any(logging.FieldError, err))
			c.sleep(ctx)
			continue
		}
		c.handle(context.WithoutCancel(ctx), d)
	}
}

func (c *Consumer) handle(ctx context.Context, d Delivery) {
	logger := c.logger
	if logger != nil {
		logger = logger.With(slog.String(logging.FieldRoutingKey, d.RoutingKey))
	}

	if !c.bound(d.RoutingKey) {
		c.ack(ctx, logger, d, "", metrics.OutcomeSkipped)
		return
	}

	env, err := Decode(d.Body)
	if err != nil {
		logging.Error(logger, "event decode failed", err)
		c.deadLetter(ctx, logger, d, "", err)
		return
	}
	if logger != nil {
		logger = logger.With(slog.String(logging.FieldEventType, env.EventType))
	}

	c.mu.RLock()
	h, ok := c.handlers[env.EventType]
	c.mu.RUnlock()
	if !ok {
		logging.Warn(logger, "no handler for event type")
		c.ack(ctx, logger, d, env.EventType, metrics.OutcomeSkipped)
		return
	}

	if err := c.invoke(logging.WithLogger(ctx, logger), h, env); err != nil {
		logging.Error(logger, "event handler failed", err)
		c.deadLetter(ctx, logger, d, env.EventType, err)
		return
	}
	c.ack(ctx, logger, d, env.EventType, metrics.OutcomeOK)
	logging.Debug(logger, "event processed")
}

func (c *Consumer) invoke(ctx context.Context, h Handler, env Envelope) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, env)
}

func (c *Consumer) ack(ctx context.Context, logger *slog.Logger, d Delivery, eventType, outcome string) {
	if err := c.source.Ack(ctx, d); err != nil {
		logging.Error(logger, "event ack failed", err)
		c.recorder.RecordEvent(metrics.DirectionConsume, eventType, metrics.OutcomeError)
		return
	}
	c.recorder.RecordEvent(metrics.DirectionConsume, eventType, outcome)
}

func (c *Consumer) deadLetter(ctx context.Context, logger *slog.Logger, d Delivery, eventType string, reason error) {
	if err := c.source.DeadLetter(ctx, d, reason); err != nil {
		logging.Error(logger, "event dead-letter failed", err)
		c.recorder.RecordEvent(metrics.DirectionConsume, eventType, metrics.OutcomeError)
		return
	}
	c.recorder.RecordEvent(metrics.DirectionConsume, eventType, metrics.OutcomeDeadLettered)
}

func (c *Consumer) bound(key string) bool {
	for _, pattern := range c.bindings {
		if MatchTopic(pattern, key) {
			return true
		}
	}
	return false
}

func (c *Consumer) sleep(ctx context.Context) {
	timer := time.NewTimer(c.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

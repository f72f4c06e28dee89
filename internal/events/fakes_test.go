package events

import (
	"context"
	"errors"
	"sync"
)

type recordingSender struct {
	mu     sync.Mutex
	sent   []Message
	err    error
	closed bool
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) Close() error {
	s.closed = true
	return nil
}

// scriptedSource replays queued deliveries, then blocks until ctx is cancelled.
type scriptedSource struct {
	mu       sync.Mutex
	queue    []Delivery
	fetchErr []error
	acked    []string
	dead     []string
	reasons  []error
	closed   bool
	drained  chan struct{}
}

func newScriptedSource(msgs ...Message) *scriptedSource {
	s := &scriptedSource{drained: make(chan struct{})}
	for i, m := range msgs {
		s.queue = append(s.queue, Delivery{Message: m, ID: string(rune('a' + i))})
	}
	return s
}

func (s *scriptedSource) Fetch(ctx context.Context) (Delivery, error) {
	s.mu.Lock()
	if len(s.fetchErr) > 0 {
		err := s.fetchErr[0]
		s.fetchErr = s.fetchErr[1:]
		s.mu.Unlock()
		return Delivery{}, err
	}
	if len(s.queue) > 0 {
		d := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()
		return d, nil
	}
	s.mu.Unlock()

	select {
	case <-s.drained:
	default:
		close(s.drained)
	}
	<-ctx.Done()
	return Delivery{}, ctx.Err()
}

func (s *scriptedSource) Ack(_ context.Context, d Delivery) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acked = append(s.acked, d.ID)
	return nil
}

func (s *scriptedSource) DeadLetter(_ context.Context, d Delivery, reason error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dead = append(s.dead, d.ID)
	s.reasons = append(s.reasons, reason)
	return nil
}

func (s *scriptedSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *scriptedSource) snapshot() (acked, dead []string, closed bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.acked...), append([]string(nil), s.dead...), s.closed
}

var errHandler = errors.New("handler exploded")

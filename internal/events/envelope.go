package events

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrMalformedEnvelope is returned for bodies that are not a JSON object with an event_type.
var ErrMalformedEnvelope = errors.New("malformed event envelope")

// Meta carries the envelope header fields written alongside every payload.
type Meta struct {
	EventID   string
	Timestamp time.Time
	Service   string
}

// Envelope is a decoded inbound message. Timestamp is kept verbatim because
// producers outside this service do not all emit RFC 3339.
type Envelope struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`

	raw json.RawMessage
}

// Decode unmarshals the full body into dest.
func (e Envelope) Decode(dest any) error {
	if err := json.Unmarshal(e.raw, dest); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	return nil
}

// Raw returns the original message body.
func (e Envelope) Raw() []byte {
	return e.raw
}

// Encode flattens the event's fields and the header into one JSON object.
func Encode(e Event, meta Meta) ([]byte, error) {
	body, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("event %s must encode as an object: %w", e.EventType(), err)
	}

	header := map[string]string{
		"event_id":   meta.EventID,
		"event_type": e.EventType(),
		"timestamp":  meta.Timestamp.UTC().Format(time.RFC3339Nano),
		"service":    meta.Service,
	}
	for k, v := range header {
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		fields[k] = encoded
	}
	return json.Marshal(fields)
}

// Decode parses the envelope header and keeps the body for typed decoding.
func Decode(body []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	if env.EventType == "" {
		return Envelope{}, fmt.Errorf("%w: missing event_type", ErrMalformedEnvelope)
	}
	env.raw = append(json.RawMessage(nil), body...)
	return env, nil
}

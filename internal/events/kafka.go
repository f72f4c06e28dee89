package events

import (
	"context"
	"fmt"
	"time"

	kafka "github.com/segmentio/kafka-go"
)

// KafkaConfig maps the topic exchange onto one Kafka topic keyed by routing key.
type KafkaConfig struct {
	Brokers         []string
	Topic           string
	GroupID         string
	DeadLetterTopic string
	DeadLetterKey   string
}

// KafkaSender publishes to a single topic; the message key carries the routing key.
type KafkaSender struct {
	writer *kafka.Writer
}

func NewKafkaSender(cfg KafkaConfig) *KafkaSender {
	// Writers are safe for concurrent use
	return &KafkaSender{writer: newKafkaWriter(cfg.Brokers, cfg.Topic)}
}

func (s *KafkaSender) Send(ctx context.Context, msg Message) error {
	return s.writer.WriteMessages(ctx, toKafkaMessage(msg))
}

func (s *KafkaSender) Close() error {
	return s.writer.Close()
}

// KafkaSource consumes through a consumer group and commits only after Ack or DeadLetter.
type KafkaSource struct {
	reader *kafka.Reader
	dlq    *kafka.Writer
	dlKey  string
}

func NewKafkaSource(cfg KafkaConfig) *KafkaSource {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  2 * time.Second,
	})
	return &KafkaSource{
		reader: reader,
		dlq:    newKafkaWriter(cfg.Brokers, cfg.DeadLetterTopic),
		dlKey:  cfg.DeadLetterKey,
	}
}

func (s *KafkaSource) Fetch(ctx context.Context) (Delivery, error) {
	m, err := s.reader.FetchMessage(ctx)
	if err != nil {
		return Delivery{}, err
	}
	return fromKafkaMessage(m), nil
}

func (s *KafkaSource) Ack(ctx context.Context, d Delivery) error {
	m, ok := d.raw.(kafka.Message)
	if !ok {
		return fmt.Errorf("delivery %s did not come from kafka", d.ID)
	}
	return s.reader.CommitMessages(ctx, m)
}

func (s *KafkaSource) DeadLetter(ctx context.Context, d Delivery, reason error) error {
	dead := toKafkaMessage(Message{Body: d.Body, Headers: deadLetterHeaders(d, reason)})
	dead.Key = []byte(s.dlKey)
	if err := s.dlq.WriteMessages(ctx, dead); err != nil {
		return fmt.Errorf("write dead letter: %w", err)
	}
	return s.Ack(ctx, d)
}

func (s *KafkaSource) Close() error {
	rerr := s.reader.Close()
	if werr := s.dlq.Close(); werr != nil && rerr == nil {
		rerr = werr
	}
	return rerr
}

func newKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireOne,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
}

func toKafkaMessage(msg Message) kafka.Message {
	headers := make([]kafka.Header, 0, len(msg.Headers))
	for k, v := range msg.Headers {
		headers = append(headers, kafka.Header{Key: k, Value: []byte(v)})
	}
	return kafka.Message{
		Key:     []byte(msg.RoutingKey),
		Value:   msg.Body,
		Headers: headers,
	}
}

func fromKafkaMessage(m kafka.Message) Delivery {
	headers := make(map[string]string, len(m.Headers))
	for _, h := range m.Headers {
		headers[h.Key] = string(h.Value)
	}
	return Delivery{
		Message: Message{
			RoutingKey: string(m.Key),
			Body:       m.Value,
			Headers:    headers,
		},
		ID:  fmt.Sprintf("%s/%d/%d", m.Topic, m.Partition, m.Offset),
		raw: m,
	}
}

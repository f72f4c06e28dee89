package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	fieldRoutingKey = "routing_key"
	fieldData       = "data"
	fieldError      = "error"
	fieldSourceID   = "source_id"

	defaultRedisBlock = 2 * time.Second
	defaultRedisBatch = 10
)

// RedisConfig maps the topic exchange onto a Redis stream read by a consumer group.
type RedisConfig struct {
	URL              string
	Stream           string
	Group            string
	Consumer         string
	DeadLetterStream string
	MaxLen           int64
	Block            time.Duration
}

// NewRedisClient parses a redis:// URL into a client.
func NewRedisClient(url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}
	return redis.NewClient(opt), nil
}

// RedisSender appends messages to a stream with fields routing_key and data.
type RedisSender struct {
	cli    *redis.Client
	stream string
	maxLen int64
}

func NewRedisSender(cli *redis.Client, cfg RedisConfig) *RedisSender {
	return &RedisSender{cli: cli, stream: cfg.Stream, maxLen: cfg.MaxLen}
}

func (s *RedisSender) Send(ctx context.Context, msg Message) error {
	return s.cli.XAdd(ctx, xaddArgs(s.stream, s.maxLen, streamValues(msg))).Err()
}

func (s *RedisSender) Close() error {
	return s.cli.Close()
}

// streamClient is the subset of *redis.Client a RedisSource drives.
type streamClient interface {
	XGroupCreateMkStream(ctx context.Context, stream, group, start string) *redis.StatusCmd
	XReadGroup(ctx context.Context, a *redis.XReadGroupArgs) *redis.XStreamSliceCmd
	XAck(ctx context.Context, stream, group string, ids ...string) *redis.IntCmd
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// RedisSource reads via XREADGROUP; Ack is XACK and DeadLetter copies to another stream first.
// Entries already delivered to this consumer but never acked are replayed (id "0")
// before new entries (id ">") are read, and again whenever an ack fails.
// Not safe for concurrent Fetch calls; the Consumer loop is its only reader.
type RedisSource struct {
	cli streamClient
	cfg RedisConfig

	grouped  bool
	replayed bool
	pending  []Delivery
}

func NewRedisSource(cli *redis.Client, cfg RedisConfig) *RedisSource {
	return newRedisSource(cli, cfg)
}

func newRedisSource(cli streamClient, cfg RedisConfig) *RedisSource {
	if cfg.Block <= 0 {
		cfg.Block = defaultRedisBlock
	}
	if cfg.Consumer == "" {
		cfg.Consumer = fmt.Sprintf("c-%d", time.Now().UnixNano())
	}
	return &RedisSource{cli: cli, cfg: cfg}
}

func (s *RedisSource) Fetch(ctx context.Context) (Delivery, error) {
	if !s.grouped {
		if err := s.ensureGroup(ctx); err != nil {
			return Delivery{}, err
		}
		s.grouped = true
	}

	if len(s.pending) == 0 && !s.replayed {
		if err := s.read(ctx, "0", -1); err != nil {
			return Delivery{}, err
		}
		if len(s.pending) == 0 {
			s.replayed = true
		}
	}

	if len(s.pending) == 0 {
		if err := s.read(ctx, ">", s.cfg.Block); err != nil {
			return Delivery{}, err
		}
		if len(s.pending) == 0 {
			return Delivery{}, ErrNoMessage
		}
	}

	d := s.pending[0]
	s.pending = s.pending[1:]
	return d, nil
}

// read buffers one XREADGROUP batch starting at id. A negative block omits BLOCK.
func (s *RedisSource) read(ctx context.Context, id string, block time.Duration) error {
	res, err := s.cli.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    s.cfg.Group,
		Consumer: s.cfg.Consumer,
		Streams:  []string{s.cfg.Stream, id},
		Count:    defaultRedisBatch,
		Block:    block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, str := range res {
		for _, msg := range str.Messages {
			s.pending = append(s.pending, deliveryFromStream(msg))
		}
	}
	return nil
}

func (s *RedisSource) Ack(ctx context.Context, d Delivery) error {
	if err := s.cli.XAck(ctx, s.cfg.Stream, s.cfg.Group, d.ID).Err(); err != nil {
		s.replayed = false
		return err
	}
	return nil
}

func (s *RedisSource) DeadLetter(ctx context.Context, d Delivery, reason error) error {
	values := streamValues(d.Message)
	values[fieldSourceID] = d.ID
	if reason != nil {
		values[fieldError] = reason.Error()
	}
	if err := s.cli.XAdd(ctx, xaddArgs(s.cfg.DeadLetterStream, s.cfg.MaxLen, values)).Err(); err != nil {
		return fmt.Errorf("write dead letter: %w", err)
	}
	return s.Ack(ctx, d)
}

func (s *RedisSource) Close() error {
	return s.cli.Close()
}

func (s *RedisSource) ensureGroup(ctx context.Context) error {
	err := s.cli.XGroupCreateMkStream(ctx, s.cfg.Stream, s.cfg.Group, "$").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create consumer group %s: %w", s.cfg.Group, err)
	}
	return nil
}

func xaddArgs(stream string, maxLen int64, values map[string]any) *redis.XAddArgs {
	args := &redis.XAddArgs{Stream: stream, Values: values}
	if maxLen > 0 {
		args.MaxLen = maxLen
		args.Approx = true
	}
	return args
}

func streamValues(msg Message) map[string]any {
	return map[string]any{
		fieldRoutingKey: msg.RoutingKey,
		fieldData:       string(msg.Body),
	}
}

func deliveryFromStream(msg redis.XMessage) Delivery {
	return Delivery{
		Message: Message{
			RoutingKey: stringValue(msg.Values[fieldRoutingKey]),
			Body:       []byte(stringValue(msg.Values[fieldData])),
			Headers:    map[string]string{},
		},
		ID:  msg.ID,
		raw: msg,
	}
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(v)
	}
}

package server

import (
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/game-catalog-service/internal/config"
	"github.com/preston-bernstein/game-catalog-service/internal/events"
	"github.com/preston-bernstein/game-catalog-service/internal/logging"
	"github.com/preston-bernstein/game-catalog-service/internal/metrics"
)

// eventWiring is the publish side and, when enabled, the consume side of the event bridge.
type eventWiring struct {
	publisher *events.Publisher
	consumer  *events.Consumer
}

func buildEvents(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (eventWiring, error) {
	sender, source, err := buildTransport(cfg.Events, cfg.Events.ConsumerEnabled)
	if err != nil {
		return eventWiring{}, err
	}
	wiring := eventWiring{
		publisher: events.NewPublisher(sender, cfg.Events.ServiceName, logger, recorder),
	}
	if source == nil {
		if cfg.Events.ConsumerEnabled {
			logging.Warn(logger, "event consumer requested but broker has no subscription support", slog.String("broker", cfg.Events.Broker))
		}
		return wiring, nil
	}

	consumer := events.NewConsumer(source, events.DefaultBindings, logger, recorder)
	consumer.Register(events.TypeCommentDeleted, events.CommentDeletedHandler(logger))
	consumer.Register(events.TypeGameSynced, events.GameEventLogger(logger))
	consumer.Register(events.TypeGameUpdated, events.GameEventLogger(logger))
	wiring.consumer = consumer
	return wiring, nil
}

// buildTransport returns a sender for the configured broker and a source when withSource is set.
func buildTransport(cfg config.EventsConfig, withSource bool) (events.Sender, events.Source, error) {
	switch cfg.Broker {
	case config.BrokerKafka:
		kcfg := events.KafkaConfig{
			Brokers:         cfg.KafkaBrokers,
			Topic:           cfg.Exchange,
			GroupID:         cfg.Queue,
			DeadLetterTopic: cfg.DeadLetter,
			DeadLetterKey:   cfg.Queue + "_dl",
		}
		var source events.Source
		if withSource {
			source = events.NewKafkaSource(kcfg)
		}
		return events.NewKafkaSender(kcfg), source, nil
	case config.BrokerRedis:
		rcfg := events.RedisConfig{
			URL:              cfg.RedisURL,
			Stream:           cfg.Exchange,
			Group:            cfg.Queue,
			Consumer:         cfg.ConsumerName,
			DeadLetterStream: cfg.DeadLetter,
		}
		senderClient, err := events.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("event sender: %w", err)
		}
		var source events.Source
		if withSource {
			sourceClient, err := events.NewRedisClient(cfg.RedisURL)
			if err != nil {
				_ = senderClient.Close()
				return nil, nil, fmt.Errorf("event source: %w", err)
			}
			source = events.NewRedisSource(sourceClient, rcfg)
		}
		return events.NewRedisSender(senderClient, rcfg), source, nil
	default:
		return events.NoopSender{}, nil, nil
	}
}

// NewPublisher builds a publish-only bridge for one-shot commands.
func NewPublisher(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*events.Publisher, error) {
	sender, _, err := buildTransport(cfg.Events, false)
	if err != nil {
		return nil, err
	}
	return events.NewPublisher(sender, cfg.Events.ServiceName, logger, recorder), nil
}

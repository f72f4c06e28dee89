package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EventsConfig selects the broker transport. Exchange names the topic or
// stream events are published to; Queue names the consumer group. ServiceName
// is stamped on every outgoing envelope.
type EventsConfig struct {
	Broker          string
	KafkaBrokers    []string
	RedisURL        string
	Exchange        string
	Queue           string
	DeadLetter      string
	ConsumerEnabled bool
	ConsumerName    string
	ServiceName     string
}

func loadEvents(v *viper.Viper) EventsConfig {
	return EventsConfig{
		Broker:          strings.ToLower(stringOrDefault(v, keyBroker, defaultBroker)),
		KafkaBrokers:    stringList(v, keyKafkaBrokers),
		RedisURL:        stringOrDefault(v, keyRedisURL, defaultRedisURL),
		Exchange:        stringOrDefault(v, keyEventsExchange, defaultEventsExchange),
		Queue:           stringOrDefault(v, keyEventsQueue, defaultEventsQueue),
		DeadLetter:      stringOrDefault(v, keyEventsDLQ, defaultEventsDLQ),
		ConsumerEnabled: boolOrDefault(v, keyEventsConsumer, true),
		ConsumerName:    stringOrDefault(v, keyConsumerName, defaultConsumerName),
		ServiceName:     stringOrDefault(v, keyEventsService, defaultEventsService),
	}
}

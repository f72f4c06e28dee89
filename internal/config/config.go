package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds runtime configuration for the server and CLI commands.
type Config struct {
	Port        string
	CORSOrigins []string
	AdminToken  string
	Provider    string
	Version     string

	Rawg     RawgConfig
	Database DatabaseConfig
	Events   EventsConfig
	Metrics  MetricsConfig
	Tracing  TracingConfig
	Logging  LoggingConfig
	Sync     SyncConfig
}

// Load resolves configuration from defaults, an optional config file and the
// environment, in increasing precedence. An empty path falls back to CONFIG_FILE.
func Load(configFile string) (Config, error) {
	v := newViper()
	if configFile == "" {
		configFile = v.GetString(keyConfigFile)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}
	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyConfigFile, "")
	v.SetDefault(keyPort, defaultPort)
	v.SetDefault(keyCORSOrigins, "*")
	v.SetDefault(keyAdminToken, "")
	v.SetDefault(keyProvider, defaultProvider)
	v.SetDefault(keyServiceVersion, defaultVersion)

	v.SetDefault(keyRawgBaseURL, defaultRawgBaseURL)
	v.SetDefault(keyRawgAPIKey, "")
	v.SetDefault(keyRawgTimeout, defaultRawgTimeout)
	v.SetDefault(keyRawgMinInterval, defaultRawgMinInterval)
	v.SetDefault(keyRawgRetries, defaultRawgRetries)
	v.SetDefault(keyRawgBackoff, defaultRawgBackoff)

	v.SetDefault(keyDatabaseURL, defaultDatabaseURL)
	v.SetDefault(keyDBMaxOpen, defaultDBMaxOpen)
	v.SetDefault(keyDBMaxIdle, defaultDBMaxIdle)
	v.SetDefault(keyDBConnLifetime, defaultDBConnLifetime)
	v.SetDefault(keyDBAutoMigrate, true)
	v.SetDefault(keyDBLogSQL, false)

	v.SetDefault(keyBroker, defaultBroker)
	v.SetDefault(keyKafkaBrokers, "")
	v.SetDefault(keyRedisURL, defaultRedisURL)
	v.SetDefault(keyEventsExchange, defaultEventsExchange)
	v.SetDefault(keyEventsQueue, defaultEventsQueue)
	v.SetDefault(keyEventsDLQ, defaultEventsDLQ)
	v.SetDefault(keyEventsConsumer, true)
	v.SetDefault(keyConsumerName, defaultConsumerName)
	v.SetDefault(keyEventsService, defaultEventsService)

	v.SetDefault(keyMetricsEnabled, true)
	v.SetDefault(keyMetricsPort, defaultMetricsPort)
	v.SetDefault(keyOtelEndpoint, "")
	v.SetDefault(keyOtelInsecure, true)
	v.SetDefault(keyOtelService, defaultServiceName)
	v.SetDefault(keyTracingEnabled, false)
	v.SetDefault(keyTracingRatio, 1.0)

	v.SetDefault(keyLogLevel, defaultLogLevel)
	v.SetDefault(keyLogFormat, defaultLogFormat)
	v.SetDefault(keyLogFile, "")
	v.SetDefault(keyLogMaxSize, 0)
	v.SetDefault(keyLogMaxBackups, 0)
	v.SetDefault(keyLogMaxAge, 0)
	v.SetDefault(keyLogCompress, false)

	v.SetDefault(keySyncInterval, time.Duration(0))
	v.SetDefault(keySyncStartPage, defaultSyncStartPage)
	v.SetDefault(keySyncPages, defaultSyncPages)
	v.SetDefault(keySyncPageSize, defaultSyncPageSize)
	v.SetDefault(keySyncLoadDetails, false)
	v.SetDefault(keySyncDetailsLimit, 0)
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Port:        stringOrDefault(v, keyPort, defaultPort),
		CORSOrigins: stringList(v, keyCORSOrigins),
		AdminToken:  strings.TrimSpace(v.GetString(keyAdminToken)),
		Provider:    strings.ToLower(stringOrDefault(v, keyProvider, defaultProvider)),
		Version:     stringOrDefault(v, keyServiceVersion, defaultVersion),
		Rawg:        loadRawg(v),
		Database:    loadDatabase(v),
		Events:      loadEvents(v),
		Metrics:     loadMetrics(v),
		Tracing:     loadTracing(v),
		Logging:     loadLogging(v),
		Sync:        loadSync(v),
	}
}

// Validate rejects enum values nothing downstream can act on.
func (c Config) Validate() error {
	var errs []error
	switch c.Provider {
	case ProviderRawg, ProviderFixture:
	default:
		errs = append(errs, fmt.Errorf("provider: unknown value %q", c.Provider))
	}
	switch c.Events.Broker {
	case BrokerNoop, BrokerRedis:
	case BrokerKafka:
		if len(c.Events.KafkaBrokers) == 0 {
			errs = append(errs, errors.New("kafka.brokers: required when broker is kafka"))
		}
	default:
		errs = append(errs, fmt.Errorf("broker: unknown value %q", c.Events.Broker))
	}
	if c.Database.URL == "" {
		errs = append(errs, errors.New("database.url: required"))
	}
	return errors.Join(errs...)
}

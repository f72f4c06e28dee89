package config

import "time"

// Keys are dotted so config files can nest them; the env replacer turns
// "rawg.api_key" into RAWG_API_KEY.
const (
	keyConfigFile = "config_file"

	keyPort        = "port"
	keyCORSOrigins = "cors.allow_origins"
	keyAdminToken  = "admin_token"
	keyProvider    = "provider"

	keyRawgBaseURL     = "rawg.base_url"
	keyRawgAPIKey      = "rawg.api_key"
	keyRawgTimeout     = "rawg.timeout"
	keyRawgMinInterval = "rawg.min_interval"
	keyRawgRetries     = "rawg.retry_attempts"
	keyRawgBackoff     = "rawg.retry_backoff"

	keyDatabaseURL    = "database.url"
	keyDBMaxOpen      = "db.max_open_conns"
	keyDBMaxIdle      = "db.max_idle_conns"
	keyDBConnLifetime = "db.conn_max_lifetime"
	keyDBAutoMigrate  = "db.auto_migrate"
	keyDBLogSQL       = "db.log_sql"

	keyBroker         = "broker"
	keyKafkaBrokers   = "kafka.brokers"
	keyRedisURL       = "redis.url"
	keyEventsExchange = "events.exchange"
	keyEventsQueue    = "events.queue"
	keyEventsDLQ      = "events.dead_letter"
	keyEventsConsumer = "events.consumer_enabled"
	keyConsumerName   = "events.consumer_name"
	keyEventsService  = "events.service_name"

	keyMetricsEnabled = "metrics.enabled"
	keyMetricsPort    = "metrics.port"
	keyOtelEndpoint   = "otel.exporter.otlp.endpoint"
	keyOtelInsecure   = "otel.exporter.otlp.insecure"
	keyOtelService    = "otel.service.name"
	keyTracingEnabled = "tracing.enabled"
	keyTracingRatio   = "tracing.sample_ratio"
	keyServiceVersion = "service.version"

	keyLogLevel      = "log.level"
	keyLogFormat     = "log.format"
	keyLogFile       = "log.file"
	keyLogMaxSize    = "log.max_size"
	keyLogMaxBackups = "log.max_backups"
	keyLogMaxAge     = "log.max_age"
	keyLogCompress   = "log.compress"

	keySyncInterval     = "sync.interval"
	keySyncStartPage    = "sync.start_page"
	keySyncPages        = "sync.pages"
	keySyncPageSize     = "sync.page_size"
	keySyncLoadDetails  = "sync.load_details"
	keySyncDetailsLimit = "sync.details_limit"
)

const (
	ProviderRawg    = "rawg"
	ProviderFixture = "fixture"

	BrokerNoop  = "noop"
	BrokerKafka = "kafka"
	BrokerRedis = "redis"
)

const (
	defaultPort     = "8000"
	defaultProvider = ProviderRawg

	defaultRawgBaseURL = "https://api.rawg.io/api"
	defaultRawgTimeout = 10 * time.Second
	// RAWG free tier allows roughly 5 requests per second.
	defaultRawgMinInterval = 250 * time.Millisecond
	defaultRawgRetries     = 3
	defaultRawgBackoff     = 500 * time.Millisecond

	defaultDatabaseURL    = "sqlite:///./games.db"
	defaultDBMaxOpen      = 10
	defaultDBMaxIdle      = 5
	defaultDBConnLifetime = 30 * time.Minute

	defaultBroker         = BrokerNoop
	defaultRedisURL       = "redis://localhost:6379/0"
	defaultEventsExchange = "blog_events"
	defaultEventsQueue    = "games_events"
	defaultEventsDLQ      = "dead_letters"
	defaultConsumerName   = "games-service"
	defaultEventsService  = "game-service"

	defaultMetricsPort = "9090"
	defaultServiceName = "game-catalog-service"
	defaultVersion     = "dev"

	defaultLogLevel  = "info"
	defaultLogFormat = "text"

	defaultSyncStartPage = 1
	defaultSyncPages     = 1
	defaultSyncPageSize  = 40
)

package config

import (
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	OtlpEndpoint string
	ServiceName  string
	OtlpInsecure bool
}

// TracingConfig shares the OTLP endpoint with metrics.
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

// LoggingConfig mirrors logging.Config without importing it.
type LoggingConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func loadMetrics(v *viper.Viper) MetricsConfig {
	return MetricsConfig{
		Enabled:      boolOrDefault(v, keyMetricsEnabled, true),
		Port:         stringOrDefault(v, keyMetricsPort, defaultMetricsPort),
		OtlpEndpoint: v.GetString(keyOtelEndpoint),
		ServiceName:  stringOrDefault(v, keyOtelService, defaultServiceName),
		OtlpInsecure: boolOrDefault(v, keyOtelInsecure, true),
	}
}

func loadTracing(v *viper.Viper) TracingConfig {
	ratio, err := cast.ToFloat64E(v.Get(keyTracingRatio))
	if err != nil || ratio <= 0 || ratio > 1 {
		ratio = 1
	}
	return TracingConfig{
		Enabled:     boolOrDefault(v, keyTracingEnabled, false),
		Endpoint:    v.GetString(keyOtelEndpoint),
		Insecure:    boolOrDefault(v, keyOtelInsecure, true),
		SampleRatio: ratio,
	}
}

func loadLogging(v *viper.Viper) LoggingConfig {
	return LoggingConfig{
		Level:      stringOrDefault(v, keyLogLevel, defaultLogLevel),
		Format:     stringOrDefault(v, keyLogFormat, defaultLogFormat),
		File:       v.GetString(keyLogFile),
		MaxSizeMB:  nonNegativeInt(v, keyLogMaxSize, 0),
		MaxBackups: nonNegativeInt(v, keyLogMaxBackups, 0),
		MaxAgeDays: nonNegativeInt(v, keyLogMaxAge, 0),
		Compress:   boolOrDefault(v, keyLogCompress, false),
	}
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig selects the relational store and tunes its pool.
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	LogSQL          bool
}

func loadDatabase(v *viper.Viper) DatabaseConfig {
	return DatabaseConfig{
		URL:             stringOrDefault(v, keyDatabaseURL, defaultDatabaseURL),
		MaxOpenConns:    positiveInt(v, keyDBMaxOpen, defaultDBMaxOpen),
		MaxIdleConns:    nonNegativeInt(v, keyDBMaxIdle, defaultDBMaxIdle),
		ConnMaxLifetime: positiveDuration(v, keyDBConnLifetime, defaultDBConnLifetime),
		AutoMigrate:     boolOrDefault(v, keyDBAutoMigrate, true),
		LogSQL:          boolOrDefault(v, keyDBLogSQL, false),
	}
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

// RawgConfig controls the upstream RAWG client and its decorators.
type RawgConfig struct {
	BaseURL       string
	APIKey        string
	Timeout       time.Duration
	MinInterval   time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
}

func loadRawg(v *viper.Viper) RawgConfig {
	return RawgConfig{
		BaseURL:       stringOrDefault(v, keyRawgBaseURL, defaultRawgBaseURL),
		APIKey:        v.GetString(keyRawgAPIKey),
		Timeout:       positiveDuration(v, keyRawgTimeout, defaultRawgTimeout),
		MinInterval:   optionalDuration(v, keyRawgMinInterval, defaultRawgMinInterval),
		RetryAttempts: positiveInt(v, keyRawgRetries, defaultRawgRetries),
		RetryBackoff:  positiveDuration(v, keyRawgBackoff, defaultRawgBackoff),
	}
}

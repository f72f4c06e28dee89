package config

import (
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Duration wraps time.Duration for clearer type usage in Config.
type Duration = time.Duration

// positiveDuration falls back to the default on unparsable or non-positive values.
func positiveDuration(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	parsed, err := cast.ToDurationE(v.Get(key))
	if err != nil || parsed <= 0 {
		return defaultValue
	}
	return parsed
}

// optionalDuration treats zero as "disabled" and falls back only on garbage.
func optionalDuration(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	parsed, err := cast.ToDurationE(v.Get(key))
	if err != nil || parsed < 0 {
		return defaultValue
	}
	return parsed
}

func positiveInt(v *viper.Viper, key string, defaultValue int) int {
	val, err := cast.ToIntE(v.Get(key))
	if err != nil || val <= 0 {
		return defaultValue
	}
	return val
}

func nonNegativeInt(v *viper.Viper, key string, defaultValue int) int {
	val, err := cast.ToIntE(v.Get(key))
	if err != nil || val < 0 {
		return defaultValue
	}
	return val
}

// boolOrDefault accepts 1/0 and yes/no alongside true/false.
func boolOrDefault(v *viper.Viper, key string, defaultValue bool) bool {
	raw := strings.TrimSpace(cast.ToString(v.Get(key)))
	if raw == "" {
		return defaultValue
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	return defaultValue
}

func stringOrDefault(v *viper.Viper, key, defaultValue string) string {
	if val := strings.TrimSpace(v.GetString(key)); val != "" {
		return val
	}
	return defaultValue
}

// stringList splits comma separated env values; config files may use a list.
func stringList(v *viper.Viper, key string) []string {
	var parts []string
	switch raw := v.Get(key).(type) {
	case string:
		parts = strings.Split(raw, ",")
	default:
		parts = cast.ToStringSlice(raw)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package config

import (
	"time"

	"github.com/spf13/viper"
)

// SyncConfig drives the scheduled batch sync. Interval zero disables it.
type SyncConfig struct {
	Interval     time.Duration
	StartPage    int
	Pages        int
	PageSize     int
	LoadDetails  bool
	DetailsLimit int
}

// Enabled reports whether the scheduler should run.
func (s SyncConfig) Enabled() bool {
	return s.Interval > 0
}

func loadSync(v *viper.Viper) SyncConfig {
	return SyncConfig{
		Interval:     optionalDuration(v, keySyncInterval, 0),
		StartPage:    positiveInt(v, keySyncStartPage, defaultSyncStartPage),
		Pages:        positiveInt(v, keySyncPages, defaultSyncPages),
		PageSize:     positiveInt(v, keySyncPageSize, defaultSyncPageSize),
		LoadDetails:  boolOrDefault(v, keySyncLoadDetails, false),
		DetailsLimit: nonNegativeInt(v, keySyncDetailsLimit, 0),
	}
}

package server

import "time"

const (
	readTimeout = 10 * time.Second
	// Batch syncs answer only once every page has been processed.
	writeTimeout = 15 * time.Minute
	idleTimeout  = 60 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second

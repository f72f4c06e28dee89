package server

import (
	"context"

	"github.com/preston-bernstein/game-catalog-service/internal/poller"
)

// Poller defines the minimal poller behavior needed by the server.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}

// Consumer is the background event consumer loop.
type Consumer interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
}

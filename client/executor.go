package client

import (
	"context"

	"github.com/townpass/roadwatch/client/internal/shardqueue"
)

// executor abstracts the internal async job runner used by EnqueueFavorite.
type executor interface {
	Submit(context.Context, string, shardqueue.Job) error
	// Barrier returns once every job submitted earlier for the key has run.
	Barrier(context.Context, string) error
	Stop()
}

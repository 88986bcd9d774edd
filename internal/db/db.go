package db

import (
	"context"
	"time"
)

// Store is the key-value facade combining the sub-interfaces the service needs.
type Store interface {
	Pinger
	SetStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetStore provides unordered set operations.
type SetStore interface {
	SMembers(ctx context.Context, key string) ([]string, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
}

package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/certiblock/verifier-node/internal/core/domain"
	"github.com/certiblock/verifier-node/pkg/cache"
)

const keyPrefix = "verification-run-"

// Manager defines the interface for storing verification run snapshots
type Manager interface {
	Get(ctx context.Context, runID uuid.UUID) (domain.RunSnapshot, error)
	Set(ctx context.Context, snapshot domain.RunSnapshot) error
}

type cached struct {
	cache cache.Cache
	ttl   time.Duration
}

// Cached returns a run snapshot manager backed by the cache
func Cached(c cache.Cache, ttl time.Duration) Manager {
	return &cached{cache: c, ttl: ttl}
}

// Get returns the last stored snapshot of a run
func (c *cached) Get(ctx context.Context, runID uuid.UUID) (domain.RunSnapshot, error) {
	var snapshot domain.RunSnapshot
	found := c.cache.Get(ctx, keyPrefix+runID.String(), &snapshot)
	if !found {
		return snapshot, fmt.Errorf("verification run not found")
	}

	return snapshot, nil
}

// Set stores the given run snapshot
func (c *cached) Set(ctx context.Context, snapshot domain.RunSnapshot) error {
	return c.cache.Set(ctx, keyPrefix+snapshot.RunID.String(), snapshot, c.ttl)
}

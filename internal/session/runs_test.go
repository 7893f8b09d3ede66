package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certiblock/verifier-node/internal/core/domain"
	"github.com/certiblock/verifier-node/pkg/cache"
)

func testManagers(t *testing.T) map[string]Manager {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return map[string]Manager{
		"redis":  Cached(cache.NewRedisCache(client), time.Minute),
		"memory": Cached(cache.NewMemoryCache(), time.Minute),
	}
}

func TestRunSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, manager := range testManagers(t) {
		t.Run(name, func(t *testing.T) {
			runID := uuid.New()
			snapshot := domain.RunSnapshot{
				RunID:   runID,
				Stage:   domain.StageLedgerChecks,
				Percent: 30,
				Message: "checking 2 candidate(s) against the ledger",
			}
			require.NoError(t, manager.Set(ctx, snapshot))

			got, err := manager.Get(ctx, runID)
			require.NoError(t, err)
			assert.Equal(t, snapshot, got)
		})
	}
}

func TestRunSnapshotOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, manager := range testManagers(t) {
		t.Run(name, func(t *testing.T) {
			runID := uuid.New()
			require.NoError(t, manager.Set(ctx, domain.RunSnapshot{RunID: runID, Stage: domain.StageLocating, Percent: 5}))
			require.NoError(t, manager.Set(ctx, domain.RunSnapshot{RunID: runID, Stage: domain.StageDone, Percent: 100}))

			got, err := manager.Get(ctx, runID)
			require.NoError(t, err)
			assert.Equal(t, domain.StageDone, got.Stage)
			assert.Equal(t, 100, got.Percent)
		})
	}
}

func TestRunSnapshotUnknownRun(t *testing.T) {
	ctx := context.Background()
	for name, manager := range testManagers(t) {
		t.Run(name, func(t *testing.T) {
			_, err := manager.Get(ctx, uuid.New())
			require.Error(t, err)
		})
	}
}

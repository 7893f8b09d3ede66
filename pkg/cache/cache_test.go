package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedThing struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func testCaches(t *testing.T) map[string]Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return map[string]Cache{
		"redis":  NewRedisCache(client),
		"memory": NewMemoryCache(),
	}
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, c := range testCaches(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Set(ctx, "thing", cachedThing{Name: "diploma", Count: 2}, time.Minute))

			var got cachedThing
			require.True(t, c.Get(ctx, "thing", &got))
			assert.Equal(t, cachedThing{Name: "diploma", Count: 2}, got)

			assert.True(t, c.Exists(ctx, "thing"))
			require.NoError(t, c.Delete(ctx, "thing"))
			assert.False(t, c.Exists(ctx, "thing"))
		})
	}
}

func TestCacheSliceValue(t *testing.T) {
	ctx := context.Background()
	for name, c := range testCaches(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Set(ctx, "identities", []string{"did:cb:a", "did:cb:b"}, time.Minute))

			var got []string
			require.True(t, c.Get(ctx, "identities", &got))
			assert.Equal(t, []string{"did:cb:a", "did:cb:b"}, got)
		})
	}
}

func TestCacheMiss(t *testing.T) {
	ctx := context.Background()
	for name, c := range testCaches(t) {
		t.Run(name, func(t *testing.T) {
			var got cachedThing
			assert.False(t, c.Get(ctx, "missing", &got))
		})
	}
}

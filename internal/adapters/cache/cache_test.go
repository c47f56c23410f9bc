package cache_test

import (
	"context"
	"path-route-service/internal/adapters/cache"
	"path-route-service/internal/adapters/repositories"
	"path-route-service/internal/domain"
	"path-route-service/internal/platform/db"
	"path-route-service/internal/ports"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSqliteCaches(t *testing.T) (*cache.SqliteDistanceCache, *cache.SqliteGeocodeCache) {
	t.Helper()

	conn, err := db.OpenSqlite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, repositories.InitSchema(context.Background(), conn))

	return cache.NewSqliteDistanceCache(conn), cache.NewSqliteGeocodeCache(conn)
}

func newRedisCache(t *testing.T) (*cache.RedisDistanceCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return cache.NewRedisDistanceCache(client, time.Hour), mr
}

func TestDistanceCaches(t *testing.T) {
	sqliteDist, _ := newSqliteCaches(t)
	redisDist, _ := newRedisCache(t)

	caches := map[string]ports.DistanceCache{
		"sqlite": sqliteDist,
		"redis":  redisDist,
	}

	for name, c := range caches {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			err := c.PutMany(ctx, "paris", map[string]ports.DistanceResult{
				"lyon":      {DistanceMeters: 465123.5, DurationSeconds: 15840.25},
				"marseille": {DistanceMeters: 775000, DurationSeconds: 25200},
			})
			require.NoError(t, err)

			got, err := c.GetMany(ctx, "paris", []string{"lyon", " lyon ", "marseille", "nice", ""})
			require.NoError(t, err)

			assert.Len(t, got, 2)
			assert.Equal(t, ports.DistanceResult{DistanceMeters: 465123.5, DurationSeconds: 15840.25}, got["lyon"])
			assert.Equal(t, ports.DistanceResult{DistanceMeters: 775000, DurationSeconds: 25200}, got["marseille"])
			assert.NotContains(t, got, "nice")

			// Overwrite keeps the latest value.
			require.NoError(t, c.PutMany(ctx, "paris", map[string]ports.DistanceResult{
				"lyon": {DistanceMeters: 1, DurationSeconds: 2},
			}))
			got, err = c.GetMany(ctx, "paris", []string{"lyon"})
			require.NoError(t, err)
			assert.Equal(t, ports.DistanceResult{DistanceMeters: 1, DurationSeconds: 2}, got["lyon"])

			// Direction matters.
			got, err = c.GetMany(ctx, "lyon", []string{"paris"})
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestDistanceCachesRejectBadKeys(t *testing.T) {
	sqliteDist, _ := newSqliteCaches(t)
	redisDist, _ := newRedisCache(t)

	for name, c := range map[string]ports.DistanceCache{"sqlite": sqliteDist, "redis": redisDist} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := c.GetMany(ctx, "", []string{"lyon"})
			assert.Error(t, err)

			err = c.PutMany(ctx, "paris", map[string]ports.DistanceResult{" ": {}})
			assert.Error(t, err)

			got, err := c.GetMany(ctx, "paris", nil)
			require.NoError(t, err)
			assert.Empty(t, got)

			assert.NoError(t, c.PutMany(ctx, "paris", nil))
		})
	}
}

func TestRedisDistanceCacheExpires(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, "paris", map[string]ports.DistanceResult{
		"lyon": {DistanceMeters: 10, DurationSeconds: 20},
	}))
	assert.Equal(t, time.Hour, mr.TTL("distance:paris|lyon"))

	mr.FastForward(2 * time.Hour)

	got, err := c.GetMany(ctx, "paris", []string{"lyon"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisDistanceCacheSkipsMalformedEntries(t *testing.T) {
	c, mr := newRedisCache(t)
	ctx := context.Background()

	mr.HSet("distance:paris|lyon", "m", "abc", "s", "1")

	got, err := c.GetMany(ctx, "paris", []string{"lyon"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSqliteGeocodeCache(t *testing.T) {
	_, geo := newSqliteCaches(t)
	ctx := context.Background()

	require.NoError(t, geo.PutMany(ctx, map[string]domain.Coordinates{
		"paris": {Lon: 2.3522, Lat: 48.8566},
		"lyon":  {Lon: 4.8357, Lat: 45.764},
	}))

	got, err := geo.GetMany(ctx, []string{"paris", "lyon", "nice"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{
		"paris": {Lon: 2.3522, Lat: 48.8566},
		"lyon":  {Lon: 4.8357, Lat: 45.764},
	}, got)

	assert.Error(t, geo.PutMany(ctx, map[string]domain.Coordinates{"": {}}))
}

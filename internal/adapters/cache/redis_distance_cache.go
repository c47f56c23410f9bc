package cache

import (
	"context"
	"errors"
	"fmt"
	"path-route-service/internal/platform/obs"
	"path-route-service/internal/ports"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Default lifetime of a cached leg in redis.
const DefaultRedisTTL = 24 * time.Hour

// RedisDistanceCache stores one hash per origin/destination pair under
// "distance:{origin}|{destination}" with fields "m" and "s".
type RedisDistanceCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisDistanceCache(client *redis.Client, ttl time.Duration) *RedisDistanceCache {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisDistanceCache{Client: client, TTL: ttl}
}

func redisDistanceKey(origin, destination string) string {
	return "distance:" + origin + "|" + destination
}

func (r *RedisDistanceCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]ports.DistanceResult, err error) {
	defer obs.Time(ctx, "distance.rediscache.GetMany")(&err)

	if r.Client == nil {
		return nil, errors.New("distance cache: redis client is nil")
	}

	if origin == "" {
		return nil, errors.New("get distance cache: origin must not be empty")
	}

	uniq := uniqueKeys(destinations)
	if len(uniq) == 0 {
		return map[string]ports.DistanceResult{}, nil
	}

	pipe := r.Client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(uniq))
	for i, d := range uniq {
		cmds[i] = pipe.HGetAll(ctx, redisDistanceKey(origin, d))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get distance cache: redis pipeline: %w", err)
	}

	out := make(map[string]ports.DistanceResult, len(uniq))
	for i, cmd := range cmds {
		fields, err := cmd.Result()
		if err != nil || len(fields) == 0 {
			continue
		}

		m, errM := strconv.ParseFloat(fields["m"], 64)
		s, errS := strconv.ParseFloat(fields["s"], 64)
		if errM != nil || errS != nil {
			log.WithField("key", redisDistanceKey(origin, uniq[i])).Warn("skipping malformed cached distance")
			continue
		}
		out[uniq[i]] = ports.DistanceResult{DistanceMeters: m, DurationSeconds: s}
	}

	return out, nil
}

func (r *RedisDistanceCache) PutMany(
	ctx context.Context,
	origin string,
	results map[string]ports.DistanceResult,
) (err error) {
	defer obs.Time(ctx, "distance.rediscache.PutMany")(&err)

	if r.Client == nil {
		return errors.New("distance cache: redis client is nil")
	}

	if origin == "" {
		return errors.New("insert distance cache: origin must not be empty")
	}

	if len(results) == 0 {
		return nil
	}

	pipe := r.Client.TxPipeline()
	for dest, res := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("insert distance cache: empty destination key")
		}

		key := redisDistanceKey(origin, dest)
		pipe.HSet(ctx, key,
			"m", strconv.FormatFloat(res.DistanceMeters, 'f', -1, 64),
			"s", strconv.FormatFloat(res.DurationSeconds, 'f', -1, 64),
		)
		pipe.Expire(ctx, key, r.TTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert distance cache: redis pipeline: %w", err)
	}

	return nil
}

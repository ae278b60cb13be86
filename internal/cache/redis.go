package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Redis keeps pages in Redis so every API replica sees the same
// invalidation. Page keys carry the route generation; Invalidate is a single
// INCR, and pages of older generations are left to expire.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func genKey(route string) string {
	return "viewgen:" + normalize(route)
}

func pageKey(route string, gen int64, key string) string {
	return fmt.Sprintf("view:%s:%d:%s", normalize(route), gen, key)
}

func (r *Redis) Generation(ctx context.Context, route string) (int64, error) {
	gen, err := r.client.Get(ctx, genKey(route)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, fmt.Errorf("reading view generation: %w", err)
	}

	return gen, nil
}

func (r *Redis) Get(ctx context.Context, route, key string) ([]byte, bool) {
	gen, err := r.Generation(ctx, route)
	if err != nil {
		slog.WarnContext(ctx, "view cache read failed", "route", route, "error", err)
		return nil, false
	}

	page, err := r.client.Get(ctx, pageKey(route, gen, key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "view cache read failed", "route", route, "error", err)
		}

		return nil, false
	}

	return page, true
}

// Set stores page under generation gen. A page stored under a superseded
// generation is never read back.
func (r *Redis) Set(ctx context.Context, route, key string, gen int64, page []byte) {
	if err := r.client.Set(ctx, pageKey(route, gen, key), page, r.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "view cache write failed", "route", route, "error", err)
	}
}

func (r *Redis) Invalidate(ctx context.Context, route string) error {
	if err := r.client.Incr(ctx, genKey(route)).Err(); err != nil {
		return fmt.Errorf("advancing view generation: %w", err)
	}

	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"uniwiz/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Aside returns the JSON value cached under key, or calls fetch and caches
// its result for ttl. Redis failures fall through to fetch.
func Aside[T any](ctx context.Context, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	if client == nil {
		return fetch(ctx)
	}

	raw, err := client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached T
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			return cached, nil
		}
		middleware.Logger.WarnContext(ctx, "discarding undecodable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		middleware.Logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
	}

	value, err := fetch(ctx)
	if err != nil {
		return value, err
	}

	if encoded, jsonErr := json.Marshal(value); jsonErr == nil {
		if setErr := client.Set(ctx, key, encoded, ttl).Err(); setErr != nil {
			middleware.Logger.WarnContext(ctx, "cache write failed", "key", key, "error", setErr)
		}
	}
	return value, nil
}

package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis opens the go-redis client backing sessions, carts, the catalog
// cache, the ticket job queue and the presence bridge. Fails fast on an
// unreachable server so the process does not come up half-wired.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}

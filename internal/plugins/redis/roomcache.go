package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aelshh/Excalidraw-clone/internal/core/domain"
)

// RedisRoomCache is the cache-aside front for the durable slug -> room id
// mapping.
type RedisRoomCache struct {
	rdb *redis.Client
}

func NewRedisRoomCache(rdb *redis.Client) *RedisRoomCache {
	return &RedisRoomCache{rdb: rdb}
}

func (c *RedisRoomCache) key(slug string) string {
	return "room:slug:" + slug
}

func (c *RedisRoomCache) GetRoomID(ctx context.Context, slug string) (string, error) {
	id, err := c.rdb.Get(ctx, c.key(slug)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", domain.ErrRoomNotFound
		}
		return "", err
	}
	return id, nil
}

func (c *RedisRoomCache) SetRoomID(ctx context.Context, slug, roomID string, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.key(slug), roomID, ttl).Err()
}

func (c *RedisRoomCache) Invalidate(ctx context.Context, slug string) error {
	return c.rdb.Del(ctx, c.key(slug)).Err()
}

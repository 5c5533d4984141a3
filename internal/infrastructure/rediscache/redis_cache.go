package rediscache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/fitcompany/fitstock-api/internal/domain/entity"
)

// RedisMethodCache implementa MethodCache sobre Redis.
type RedisMethodCache struct {
	client *redis.Client
}

// NewRedisMethodCache construye el cache con su propio cliente.
func NewRedisMethodCache(addr string, password string, db int) *RedisMethodCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisMethodCache{client: client}
}

func (c *RedisMethodCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisMethodCache) Close() error {
	return c.client.Close()
}

func (c *RedisMethodCache) Get(ctx context.Context, key string) (*entity.PaymentMethod, bool, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var m entity.PaymentMethod
	if err := json.Unmarshal([]byte(val), &m); err != nil {
		return nil, false, err
	}
	return &m, true, nil
}

func (c *RedisMethodCache) Set(ctx context.Context, key string, value *entity.PaymentMethod, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, payload, ttl).Err()
}

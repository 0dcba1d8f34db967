package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orenshv/flightsdb/config"
	"github.com/orenshv/flightsdb/internal/domain"
)

// RedisCache caches the full flight list and holds short-lived booking locks.
// The locks are a fast-path guard only; the database transaction in the
// repository is what actually protects the capacity invariant.
type RedisCache struct {
	client     *redis.Client
	flightsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, flightsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		flightsTTL: flightsTTL,
	}
}

func (c *RedisCache) GetFlights(ctx context.Context) ([]domain.Record, error) {
	data, err := c.client.Get(ctx, flightsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var flights []domain.Record
	if err := json.Unmarshal(data, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *RedisCache) SetFlights(ctx context.Context, flights []domain.Record) error {
	payload, err := json.Marshal(flights)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, flightsKey(), payload, c.flightsTTL).Err()
}

// InvalidateFlights drops the cached list after a flight is created or
// cancelled.
func (c *RedisCache) InvalidateFlights(ctx context.Context) error {
	return c.client.Del(ctx, flightsKey()).Err()
}

func (c *RedisCache) AcquireBookingLock(ctx context.Context, flightID, customerID int64, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, bookingLockKey(flightID, customerID), "locked", ttl).Result()
}

func (c *RedisCache) ReleaseBookingLock(ctx context.Context, flightID, customerID int64) error {
	return c.client.Del(ctx, bookingLockKey(flightID, customerID)).Err()
}

func flightsKey() string {
	return "cache:flights"
}

func bookingLockKey(flightID, customerID int64) string {
	return fmt.Sprintf("lock:flight:%d:customer:%d", flightID, customerID)
}

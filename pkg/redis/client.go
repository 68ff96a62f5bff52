package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// HealthStatus represents the health status of the Redis connection
type HealthStatus string

const (
	// StatusUp indicates the connection is healthy
	StatusUp HealthStatus = "UP"
	// StatusDown indicates the connection is not healthy
	StatusDown HealthStatus = "DOWN"
)

// Client wraps the go-redis client behind the key-value contract the
// application relies on: Get with an explicit found flag, Set with TTL,
// and Ping. Connection establishment is a separate step (Connect) so a
// cache outage at startup degrades instead of crashing the process; the
// underlying pool reconnects on demand afterwards.
type Client struct {
	rdb    *redis.Client
	config *Config
}

// NewClient creates a Redis client from the given configuration. The
// connection is not established until Connect is called.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = NewConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid Redis configuration: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password:     config.Password,
		DB:           config.Database,
		MaxRetries:   config.MaxRetries,
		PoolSize:     config.PoolSize,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	return &Client{rdb: rdb, config: config}, nil
}

// Connect verifies the connection by pinging the server. A failure here
// is reported to the caller, which is expected to log it and carry on in
// degraded (cache-miss) mode.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connect failed: %w", err)
	}
	return nil
}

// Ping tests the connection to Redis
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close closes the Redis client connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetBytes retrieves the value stored at key. The second return value
// reports whether the key was present; an absent key is not an error.
func (c *Client) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a key-value pair with the given expiration
func (c *Client) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// SetNX stores a key-value pair only when the key does not already exist.
// Returns true when the key was set.
func (c *Client) SetNX(ctx context.Context, key string, value []byte, expiration time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, key, value, expiration).Result()
}

// Expire resets the expiration of a key
func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return c.rdb.Expire(ctx, key, expiration).Err()
}

// TTL returns the remaining time to live of a key
func (c *Client) TTL(ctx context.Context, key string) (time.Duration, error) {
	return c.rdb.TTL(ctx, key).Result()
}

// Delete removes one or more keys
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// Health returns the current health of the connection with pool details
func (c *Client) Health(ctx context.Context) (HealthStatus, map[string]string) {
	details := map[string]string{
		"addr": fmt.Sprintf("%s:%d", c.config.Host, c.config.Port),
	}

	start := time.Now()
	if err := c.Ping(ctx); err != nil {
		details["error"] = err.Error()
		return StatusDown, details
	}
	details["latency"] = time.Since(start).String()

	stats := c.rdb.PoolStats()
	details["pool_total_conns"] = fmt.Sprintf("%d", stats.TotalConns)
	details["pool_idle_conns"] = fmt.Sprintf("%d", stats.IdleConns)

	return StatusUp, details
}

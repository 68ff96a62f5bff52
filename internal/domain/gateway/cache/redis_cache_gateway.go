package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/renatoramossilva/weather-service/internal/domain/model"
	"github.com/renatoramossilva/weather-service/pkg/redis"
)

// redisCacheGateway implements Gateway on top of the Redis client
type redisCacheGateway struct {
	client *redis.Client
}

// NewRedisCacheGateway creates a new Redis-backed cache gateway
func NewRedisCacheGateway(client *redis.Client) Gateway {
	return &redisCacheGateway{client: client}
}

// GetRecord reads and deserializes the record stored at key
func (g *redisCacheGateway) GetRecord(ctx context.Context, key string) (*model.WeatherRecord, bool, error) {
	data, found, err := g.client.GetBytes(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("cache read for %s failed: %w", key, err)
	}
	if !found {
		return nil, false, nil
	}

	var record model.WeatherRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false, fmt.Errorf("cache entry for %s is not a weather record: %w", key, err)
	}
	if err := record.Validate(); err != nil {
		return nil, false, fmt.Errorf("cache entry for %s is incomplete: %w", key, err)
	}

	return &record, true, nil
}

// SetRecord serializes and writes the record at key with the given TTL
func (g *redisCacheGateway) SetRecord(ctx context.Context, key string, record *model.WeatherRecord, ttl time.Duration) error {
	if err := record.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize weather record: %w", err)
	}

	if err := g.client.Set(ctx, key, data, ttl); err != nil {
		return fmt.Errorf("cache write for %s failed: %w", key, err)
	}
	return nil
}

// Health reports the cache-store component health
func (g *redisCacheGateway) Health(ctx context.Context) model.ComponentHealthStatus {
	status, details := g.client.Health(ctx)

	componentStatus := model.StatusDown
	if status == redis.StatusUp {
		componentStatus = model.StatusUp
	}

	return model.ComponentHealthStatus{
		Status:  componentStatus,
		Details: details,
	}
}

package cache

import (
	"context"
	"time"

	"github.com/renatoramossilva/weather-service/internal/domain/model"
)

// Gateway defines the cache-store operations the lookup path and the
// population worker rely on. Implementations must never extend the TTL
// of an entry on read.
type Gateway interface {
	// GetRecord reads the record stored at key. The bool reports whether
	// a valid entry was present; an absent key is not an error.
	GetRecord(ctx context.Context, key string) (*model.WeatherRecord, bool, error)

	// SetRecord writes the record at key with the given TTL. The write is
	// idempotent: repeating it leaves the same value and resets the TTL.
	SetRecord(ctx context.Context, key string, record *model.WeatherRecord, ttl time.Duration) error

	// Health reports the cache-store component health
	Health(ctx context.Context) model.ComponentHealthStatus
}

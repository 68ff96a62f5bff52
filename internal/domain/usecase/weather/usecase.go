package weather

import (
	"context"

	"github.com/renatoramossilva/weather-service/internal/domain/model"
)

type UseCase interface {
	// Lookup returns the current weather for a city query, serving from
	// the cache when possible and falling back to the provider on a
	// miss. Misses enqueue a cache-population message as a side effect.
	// Fails with *model.NotFoundError or *model.UpstreamError only;
	// cache and channel errors never fail a lookup.
	Lookup(ctx context.Context, cityQuery string) (*model.WeatherRecord, error)

	// Refresh fetches a city from the provider and enqueues a
	// cache-population message without consulting the cache. Used by the
	// scheduled cache warmer to keep hot entries from going cold.
	Refresh(ctx context.Context, cityQuery string) error
}

package weather

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/renatoramossilva/weather-service/internal/domain/gateway/api"
	"github.com/renatoramossilva/weather-service/internal/domain/gateway/cache"
	"github.com/renatoramossilva/weather-service/internal/domain/gateway/queue"
	"github.com/renatoramossilva/weather-service/internal/domain/model"
	"github.com/renatoramossilva/weather-service/internal/observability"
)

type weatherUseCase struct {
	routingKey   string
	cacheTTL     time.Duration
	apiGateway   api.WeatherGateway
	cacheGateway cache.Gateway
	queueSender  queue.Sender
	observer     observability.Observer
	logger       *zap.Logger
}

func NewWeatherUseCase(
	routingKey string,
	cacheTTL time.Duration,
	apiGateway api.WeatherGateway,
	cacheGateway cache.Gateway,
	queueSender queue.Sender,
	observer observability.Observer,
	logger *zap.Logger,
) UseCase {
	if observer == nil {
		observer = observability.NopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &weatherUseCase{
		routingKey:   routingKey,
		cacheTTL:     cacheTTL,
		apiGateway:   apiGateway,
		cacheGateway: cacheGateway,
		queueSender:  queueSender,
		observer:     observer,
		logger:       logger,
	}
}

// Lookup checks the cache first and falls back to the provider on a
// miss. Cache failures on read and publish failures on miss are logged
// and contained: an available upstream answer is never turned into a
// failed request.
func (uc *weatherUseCase) Lookup(ctx context.Context, cityQuery string) (*model.WeatherRecord, error) {
	key := model.CacheKeyFor(cityQuery)
	city := model.NormalizeCityQuery(cityQuery)

	record, found, err := uc.cacheGateway.GetRecord(ctx, key)
	if err != nil {
		// Degraded cache is treated as a miss.
		uc.logger.Warn("cache read failed, falling through to provider",
			zap.String("cache_key", key),
			zap.Error(err))
	}
	if found {
		uc.observer.CacheHit(city)
		uc.logger.Debug("cache hit", zap.String("cache_key", key))
		return record, nil
	}
	uc.observer.CacheMiss(city)

	record, err = uc.fetchFromProvider(ctx, cityQuery)
	if err != nil {
		return nil, err
	}

	// The caller gets the record immediately; the cache write travels
	// through the message channel and is applied by the population
	// worker on its own schedule.
	uc.publishPopulationMessage(key, record)

	return record, nil
}

// Refresh fetches a city and enqueues its population message without a
// cache read. A publish failure here is an error: the whole point of a
// refresh is the cache write.
func (uc *weatherUseCase) Refresh(ctx context.Context, cityQuery string) error {
	record, err := uc.fetchFromProvider(ctx, cityQuery)
	if err != nil {
		return err
	}

	message := uc.buildPopulationMessage(model.CacheKeyFor(cityQuery), record)
	if err := uc.queueSender.SendMessage(ctx, uc.routingKey, message); err != nil {
		uc.observer.PublishFailure()
		return err
	}
	return nil
}

// fetchFromProvider calls the provider and records outcome and latency
func (uc *weatherUseCase) fetchFromProvider(ctx context.Context, cityQuery string) (*model.WeatherRecord, error) {
	start := time.Now()
	record, err := uc.apiGateway.CurrentWeather(ctx, cityQuery)
	elapsed := time.Since(start)

	if err != nil {
		uc.observer.ProviderCall(providerOutcome(err), elapsed)
		return nil, err
	}

	uc.observer.ProviderCall(observability.OutcomeSuccess, elapsed)
	return record, nil
}

// publishPopulationMessage enqueues the cache write without blocking the
// caller. Failures are logged and counted, never propagated: the cache
// simply stays cold for this lookup.
func (uc *weatherUseCase) publishPopulationMessage(key string, record *model.WeatherRecord) {
	message := uc.buildPopulationMessage(key, record)

	// Detached from the request context so a caller disconnecting right
	// after the response does not abort the enqueue; the publisher
	// applies its own timeout.
	publishCtx := context.Background()

	go func() {
		if err := uc.queueSender.SendMessage(publishCtx, uc.routingKey, message); err != nil {
			uc.observer.PublishFailure()
			uc.logger.Error("failed to publish cache population message",
				zap.String("cache_key", key),
				zap.Error(err))
			return
		}
		uc.logger.Debug("cache population message published", zap.String("cache_key", key))
	}()
}

// buildPopulationMessage assembles the message carried over the channel
func (uc *weatherUseCase) buildPopulationMessage(key string, record *model.WeatherRecord) model.CachePopulationMessage {
	return model.CachePopulationMessage{
		CacheKey: key,
		Payload:  *record,
		Expire:   int(uc.cacheTTL.Seconds()),
	}
}

// providerOutcome maps a lookup error onto an observer outcome label
func providerOutcome(err error) string {
	var notFound *model.NotFoundError
	if errors.As(err, &notFound) {
		return observability.OutcomeNotFound
	}
	return observability.OutcomeError
}

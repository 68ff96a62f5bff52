package processor

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/renatoramossilva/weather-service/internal/domain/gateway/cache"
	"github.com/renatoramossilva/weather-service/internal/domain/model"
	"github.com/renatoramossilva/weather-service/internal/observability"
	"github.com/renatoramossilva/weather-service/pkg/rabbit"
)

const writeTimeout = 5 * time.Second

// CacheProcessor converts cache-population messages into cache writes.
// The write is idempotent, so redelivery of the same message just
// overwrites the key and resets its TTL window.
type CacheProcessor struct {
	cacheGateway cache.Gateway
	observer     observability.Observer
	logger       *zap.Logger
}

func NewCacheProcessor(cacheGateway cache.Gateway, observer observability.Observer, logger *zap.Logger) *CacheProcessor {
	if observer == nil {
		observer = observability.NopObserver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheProcessor{
		cacheGateway: cacheGateway,
		observer:     observer,
		logger:       logger,
	}
}

// HandleMessage implements the rabbit.Handler interface. Returning nil
// acknowledges the delivery; returning an error leaves it unacknowledged
// for redelivery, except malformed bodies, which are dropped because
// redelivery cannot fix a decode failure.
func (p *CacheProcessor) HandleMessage(d *amqp.Delivery) error {
	message, err := model.DecodeCachePopulationMessage(d.Body)
	if err != nil {
		p.observer.CacheWrite(observability.OutcomeError)
		return fmt.Errorf("%w: %w", rabbit.ErrDrop, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	ttl := time.Duration(message.Expire) * time.Second
	if err := p.cacheGateway.SetRecord(ctx, message.CacheKey, &message.Payload, ttl); err != nil {
		p.observer.CacheWrite(observability.OutcomeError)
		p.logger.Error("cache write failed, leaving message for redelivery",
			zap.String("cache_key", message.CacheKey),
			zap.Bool("redelivered", d.Redelivered),
			zap.Error(err))
		return err
	}

	p.observer.CacheWrite(observability.OutcomeSuccess)
	p.logger.Info("weather info saved on cache",
		zap.String("cache_key", message.CacheKey),
		zap.Int("expire_seconds", message.Expire))
	return nil
}

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/renatoramossilva/weather-service/configs"
	"github.com/renatoramossilva/weather-service/internal/application/processor"
	"github.com/renatoramossilva/weather-service/internal/domain/gateway/cache"
	"github.com/renatoramossilva/weather-service/internal/observability"
	"github.com/renatoramossilva/weather-service/pkg/log"
	"github.com/renatoramossilva/weather-service/pkg/msg"
	"github.com/renatoramossilva/weather-service/pkg/rabbit"
	"github.com/renatoramossilva/weather-service/pkg/redis"
	"github.com/renatoramossilva/weather-service/pkg/resource"
)

func main() {
	logger := log.New(configs.Env.ApplicationName + "-worker")
	logger.Info(msg.GetMessage("worker.start"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init Cache Store. A failed connect is logged; writes will fail and
	// their messages stay queued for redelivery until the store is back.
	redisClient, err := redis.NewClient(redis.NewConfig().
		WithHost(resource.GetString("app.redis.host")).
		WithPort(resource.GetInt("app.redis.port")).
		WithPassword(resource.GetString("app.redis.password")).
		WithDatabase(resource.GetInt("app.redis.database")))
	if err != nil {
		logger.Fatal("invalid redis configuration", zap.Error(err))
	}
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Connect(connectCtx); err != nil {
		logger.Error(msg.GetMessage("cache.connect-failed"), zap.Error(err))
	}
	cancel()

	// Init Message Channel. The worker loop redials with backoff, so a
	// broker outage at startup only delays consumption.
	rabbitClient, err := rabbit.NewClient(rabbit.NewConfig().
		WithURL(resource.GetString("app.rabbit.url")).
		WithExchange(resource.GetString("app.rabbit.exchange")).
		WithQueue(resource.GetString("app.rabbit.queue")).
		WithRoutingKey(resource.GetString("app.rabbit.routing-key")))
	if err != nil {
		logger.Fatal("invalid broker configuration", zap.Error(err))
	}
	if err := rabbitClient.Connect(); err != nil {
		logger.Error(msg.GetMessage("queue.connect-failed"), zap.Error(err))
	}

	cacheGateway := cache.NewRedisCacheGateway(redisClient)
	cacheProcessor := processor.NewCacheProcessor(cacheGateway, observability.NewMetrics(), logger.Named("processor"))

	worker, err := rabbit.NewWorker(
		rabbitClient,
		resource.GetString("app.rabbit.queue"),
		cacheProcessor,
		&rabbit.WorkerConfig{
			Prefetch: resource.GetInt("app.rabbit.prefetch"),
			PoolSize: resource.GetInt("app.rabbit.pool-size"),
		},
		logger.Named("worker"),
	)
	if err != nil {
		logger.Fatal("invalid worker configuration", zap.Error(err))
	}

	worker.Start(ctx)

	if err := rabbitClient.Close(); err != nil {
		logger.Error("broker close failed", zap.Error(err))
	}
	if err := redisClient.Close(); err != nil {
		logger.Error("redis close failed", zap.Error(err))
	}
	logger.Info(msg.GetMessage("worker.stop"))
}

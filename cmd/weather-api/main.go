package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/renatoramossilva/weather-service/configs"
	"github.com/renatoramossilva/weather-service/internal/application/controller"
	"github.com/renatoramossilva/weather-service/internal/application/schedule"
	"github.com/renatoramossilva/weather-service/internal/domain/gateway/api"
	"github.com/renatoramossilva/weather-service/internal/domain/gateway/cache"
	"github.com/renatoramossilva/weather-service/internal/domain/gateway/queue"
	"github.com/renatoramossilva/weather-service/internal/domain/usecase/health"
	"github.com/renatoramossilva/weather-service/internal/domain/usecase/weather"
	"github.com/renatoramossilva/weather-service/internal/observability"
	pkghttp "github.com/renatoramossilva/weather-service/pkg/http"
	"github.com/renatoramossilva/weather-service/pkg/log"
	"github.com/renatoramossilva/weather-service/pkg/msg"
	"github.com/renatoramossilva/weather-service/pkg/rabbit"
	"github.com/renatoramossilva/weather-service/pkg/redis"
	"github.com/renatoramossilva/weather-service/pkg/resource"
)

func main() {
	logger := log.New(configs.Env.ApplicationName)
	logger.Info(msg.GetMessage("app.start"))

	// Init infra
	e := echo.New()
	e.HideBanner = true
	apiGroup := e.Group(resource.GetString("app.server.context-path"))

	metrics := observability.NewMetrics()

	// Init Cache Store. A failed connect degrades to cache-miss
	// behavior instead of stopping the process.
	redisClient, err := redis.NewClient(redis.NewConfig().
		WithHost(resource.GetString("app.redis.host")).
		WithPort(resource.GetInt("app.redis.port")).
		WithPassword(resource.GetString("app.redis.password")).
		WithDatabase(resource.GetInt("app.redis.database")))
	if err != nil {
		logger.Fatal("invalid redis configuration", zap.Error(err))
	}
	connectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Connect(connectCtx); err != nil {
		logger.Error(msg.GetMessage("cache.connect-failed"), zap.Error(err))
	}
	cancel()

	// Init Message Channel. Same degraded-start policy: the publisher
	// redials on demand.
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

	// Init Gateways
	weatherGateway := api.NewWeatherGateway(
		resource.GetString("app.weather-api.base-url"),
		resource.GetString("app.weather-api.key"),
		pkghttp.ClientOptions{ReadTimeout: resource.GetDuration("app.weather-api.timeout")},
	)
	cacheGateway := cache.NewRedisCacheGateway(redisClient)
	queueSender := queue.NewRabbitSender(rabbit.NewPublisher(rabbitClient))
	queueHealthGateway := queue.NewRabbitHealthGateway(rabbitClient)

	// Init UseCases
	cacheTTL := time.Duration(resource.GetInt("app.cache.expire-seconds")) * time.Second
	weatherUseCase := weather.NewWeatherUseCase(
		resource.GetString("app.rabbit.routing-key"),
		cacheTTL,
		weatherGateway,
		cacheGateway,
		queueSender,
		metrics,
		logger.Named("weather"),
	)
	healthUseCase := health.NewHealthUseCase(cacheGateway, queueHealthGateway)

	// Init Controllers
	weatherController := controller.NewWeatherController(apiGroup, weatherUseCase)
	healthController := controller.NewHealthController(apiGroup, healthUseCase)
	metricsController := controller.NewMetricsController(apiGroup, metrics)

	// Init Routes
	weatherController.InitWeatherRoutes()
	healthController.InitHealthRoutes()
	metricsController.InitMetricsRoutes()

	// Init Schedule
	warmScheduler := schedule.NewCacheWarmScheduler(weatherUseCase, redisClient, &schedule.CacheWarmSchedulerConfig{
		CronExpression:  resource.GetString("app.cache.warm.cron"),
		Cities:          resource.GetStringSlice("app.cache.warm.cities"),
		LockTTL:         resource.GetDuration("app.cache.warm.lock-ttl"),
		RefreshInterval: resource.GetDuration("app.cache.warm.lock-refresh"),
	}, logger.Named("cache-warm"))
	warmScheduler.InitCacheWarmScheduleTasks(context.Background())

	// Start Routes
	e.Logger.Fatal(e.Start(":" + resource.GetString("app.server.port")))
}

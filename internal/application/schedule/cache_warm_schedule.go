package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/renatoramossilva/weather-service/internal/domain/usecase/weather"
	"github.com/renatoramossilva/weather-service/pkg/redis"
)

// CacheWarmSchedulerConfig holds configuration for the cache warmer
type CacheWarmSchedulerConfig struct {
	// CronExpression decides when tracked cities are refreshed
	CronExpression string
	// Cities is the list of tracked city queries kept warm
	Cities []string
	// LockTTL bounds how long a crashed instance holds the warm lock
	LockTTL time.Duration
	// RefreshInterval is the lock TTL refresh period
	RefreshInterval time.Duration
}

// CacheWarmScheduler periodically re-fetches a configured list of
// tracked cities and enqueues population messages so their cache
// entries do not expire between user lookups. A Redis lock serializes
// the job across service instances.
type CacheWarmScheduler struct {
	cron        *cron.Cron
	useCase     weather.UseCase
	redisClient *redis.Client
	config      *CacheWarmSchedulerConfig
	logger      *zap.Logger
}

// NewCacheWarmScheduler creates a new cache warm scheduler
func NewCacheWarmScheduler(useCase weather.UseCase, redisClient *redis.Client, config *CacheWarmSchedulerConfig, logger *zap.Logger) *CacheWarmScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheWarmScheduler{
		cron:        cron.New(),
		useCase:     useCase,
		redisClient: redisClient,
		config:      config,
		logger:      logger,
	}
}

// InitCacheWarmScheduleTasks acquires the distributed lock and starts
// the cron. Losing the lock (or failing to acquire it) leaves warming to
// another instance; the serving path is unaffected either way.
func (s *CacheWarmScheduler) InitCacheWarmScheduleTasks(ctx context.Context) {
	if len(s.config.Cities) == 0 {
		s.logger.Info("no tracked cities configured, cache warmer disabled")
		return
	}

	go func() {
		lock := redis.NewTaskLock(s.redisClient, "cache_warm_scheduler", s.getLockTTL(), s.getRefreshInterval())

		if err := lock.Lock(ctx); err != nil {
			if errors.Is(err, redis.ErrLockNotAcquired) {
				s.logger.Info("cache warm lock held elsewhere, warmer not started here")
			} else {
				s.logger.Error("failed to acquire cache warm lock, warmer not started", zap.Error(err))
			}
			return
		}

		refreshErrChan := lock.AutoRefresh(ctx)

		if _, err := s.cron.AddFunc(s.config.CronExpression, s.ExecuteScheduledTask); err != nil {
			s.logger.Error("failed to schedule cache warm task", zap.Error(err))
			return
		}

		s.cron.Start()
		s.logger.Info("cache warm scheduler started",
			zap.String("cron", s.config.CronExpression),
			zap.Int("cities", len(s.config.Cities)))

		err := <-refreshErrChan

		cronCtx := s.cron.Stop()
		<-cronCtx.Done()

		if err != nil {
			s.logger.Error("cache warm scheduler stopped, lock refresh failed", zap.Error(err))
		} else {
			s.logger.Info("cache warm scheduler stopped gracefully")
		}
	}()
}

// ExecuteScheduledTask refreshes every tracked city. One failing city
// does not stop the others.
func (s *CacheWarmScheduler) ExecuteScheduledTask() {
	requestID := uuid.New().String()
	logger := s.logger.With(zap.String("request_id", requestID))

	logger.Info("cache warm task triggered")

	for _, city := range s.config.Cities {
		if err := s.useCase.Refresh(context.Background(), city); err != nil {
			logger.Error("failed to refresh city", zap.String("city", city), zap.Error(err))
			continue
		}
		logger.Debug("city refresh enqueued", zap.String("city", city))
	}

	logger.Info("cache warm task completed")
}

// Stop gracefully stops the scheduler
func (s *CacheWarmScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *CacheWarmScheduler) getLockTTL() time.Duration {
	if s.config.LockTTL > 0 {
		return s.config.LockTTL
	}
	return 10 * time.Minute
}

func (s *CacheWarmScheduler) getRefreshInterval() time.Duration {
	if s.config.RefreshInterval > 0 {
		return s.config.RefreshInterval
	}
	return 1 * time.Minute
}

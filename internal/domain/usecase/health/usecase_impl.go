package health

import (
	"context"
	"time"

	"github.com/renatoramossilva/weather-service/internal/domain/gateway/cache"
	"github.com/renatoramossilva/weather-service/internal/domain/gateway/queue"
	"github.com/renatoramossilva/weather-service/internal/domain/model"
)

const checkTimeout = 3 * time.Second

type healthUseCase struct {
	cacheGateway cache.Gateway
	queueGateway queue.HealthGateway
}

func NewHealthUseCase(cacheGateway cache.Gateway, queueGateway queue.HealthGateway) UseCase {
	return &healthUseCase{
		cacheGateway: cacheGateway,
		queueGateway: queueGateway,
	}
}

func (useCase *healthUseCase) CheckHealth() model.HealthResponse {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	cacheHealth := useCase.cacheGateway.Health(ctx)
	queueHealth := useCase.queueGateway.Health()

	// The endpoint stays available on a cache outage; the overall status
	// still reports DOWN so operators see the degradation.
	overallStatus := model.StatusUp
	if cacheHealth.Status != model.StatusUp || queueHealth.Status != model.StatusUp {
		overallStatus = model.StatusDown
	}

	return model.HealthResponse{
		Status: overallStatus,
		Cache:  cacheHealth,
		Queue:  queueHealth,
	}
}

package health

import "github.com/renatoramossilva/weather-service/internal/domain/model"

type UseCase interface {
	// CheckHealth aggregates the health of the cache store and the
	// message channel
	CheckHealth() model.HealthResponse
}

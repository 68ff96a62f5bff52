package queue

import (
	"github.com/renatoramossilva/weather-service/internal/domain/model"
	"github.com/renatoramossilva/weather-service/pkg/rabbit"
)

// HealthGateway reports the message-channel component health
type HealthGateway interface {
	Health() model.ComponentHealthStatus
}

// rabbitHealthGateway implements HealthGateway over the broker client
type rabbitHealthGateway struct {
	client *rabbit.Client
}

// NewRabbitHealthGateway creates a new broker-backed HealthGateway
func NewRabbitHealthGateway(client *rabbit.Client) HealthGateway {
	return &rabbitHealthGateway{client: client}
}

// Health reports the broker connection health
func (g *rabbitHealthGateway) Health() model.ComponentHealthStatus {
	status, details := g.client.Health()

	componentStatus := model.StatusDown
	if status == rabbit.StatusUp {
		componentStatus = model.StatusUp
	}

	return model.ComponentHealthStatus{
		Status:  componentStatus,
		Details: details,
	}
}

package queue

import (
	"context"

	"github.com/renatoramossilva/weather-service/pkg/rabbit"
)

// rabbitSender implements Sender on top of the confirmed publisher
type rabbitSender struct {
	publisher *rabbit.Publisher
}

// NewRabbitSender creates a new broker-backed Sender
func NewRabbitSender(publisher *rabbit.Publisher) Sender {
	return &rabbitSender{publisher: publisher}
}

// SendMessage publishes body as JSON under the given routing key
func (s *rabbitSender) SendMessage(ctx context.Context, routingKey string, body any) error {
	return s.publisher.Publish(ctx, routingKey, body)
}

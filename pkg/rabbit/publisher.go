package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends JSON messages to the configured exchange and waits for
// the broker confirmation, bounded by the configured publish timeout.
type Publisher struct {
	client *Client
}

// NewPublisher creates and returns a new Publisher
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// Publish serializes body to JSON and publishes it with the given
// routing key as a persistent message. It returns an error when the
// message could not be serialized, sent, or confirmed in time.
func (p *Publisher) Publish(ctx context.Context, routingKey string, body any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to serialize message body to JSON: %w", err)
	}

	ch, err := p.client.PublishChannel()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.client.Config().PublishTimeout)
	defer cancel()

	confirmation, err := ch.PublishWithDeferredConfirmWithContext(
		ctx,
		p.client.Config().Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         jsonBody,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish to %s/%s: %w", p.client.Config().Exchange, routingKey, err)
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("publish confirmation failed: %w", err)
	}
	if !acked {
		return fmt.Errorf("publish to %s/%s rejected by broker", p.client.Config().Exchange, routingKey)
	}

	return nil
}

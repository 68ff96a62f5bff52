package rabbit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// ErrDrop signals that a message is unprocessable and must not be
// redelivered. Handlers wrap decode failures with it; everything else is
// nacked back to the queue.
var ErrDrop = errors.New("drop message")

// HandlerFunc defines a function that handles a queue delivery
type HandlerFunc func(d *amqp.Delivery) error

// HandleMessage implements the Handler interface for HandlerFunc
func (f HandlerFunc) HandleMessage(d *amqp.Delivery) error {
	return f(d)
}

// Handler defines an interface that processes a queue delivery
type Handler interface {
	HandleMessage(d *amqp.Delivery) error
}

// WorkerConfig defines the configuration options for a Worker
type WorkerConfig struct {
	// Prefetch limits unacknowledged deliveries per worker slot
	Prefetch int
	// PoolSize is the number of concurrent consuming slots
	PoolSize int
	// ConsumerTag identifies this consumer on the broker
	ConsumerTag string
}

// Worker consumes deliveries from a queue and runs them through a
// Handler. A delivery is acknowledged only after the handler returns
// nil; a handler error requeues it, so a crash mid-processing leaves the
// message eligible for redelivery rather than half-acknowledged.
type Worker struct {
	client      *Client
	queueName   string
	handler     Handler
	prefetch    int
	poolSize    int
	consumerTag string
	logger      *zap.Logger
}

// NewWorker creates and returns a new Worker.
//
// If the provided WorkerConfig is nil or its fields are zero, the
// following defaults will be used:
//   - Prefetch: 1
//   - PoolSize: 1
//   - ConsumerTag: the queue name
//
// Validations:
//   - Prefetch must be greater than 0.
//   - PoolSize must be greater than 0.
func NewWorker(client *Client, queueName string, handler Handler, config *WorkerConfig, logger *zap.Logger) (*Worker, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	if handler == nil {
		return nil, errors.New("handler is required")
	}
	if queueName == "" {
		return nil, errors.New("queueName is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	prefetch := 1
	poolSize := 1
	consumerTag := queueName

	if config != nil {
		if config.Prefetch != 0 {
			prefetch = config.Prefetch
		}
		if config.PoolSize != 0 {
			poolSize = config.PoolSize
		}
		if config.ConsumerTag != "" {
			consumerTag = config.ConsumerTag
		}
	}

	if prefetch < 1 {
		return nil, errors.New("prefetch must be greater than 0")
	}
	if poolSize < 1 {
		return nil, errors.New("poolSize must be greater than 0")
	}

	return &Worker{
		client:      client,
		queueName:   queueName,
		handler:     handler,
		prefetch:    prefetch,
		poolSize:    poolSize,
		consumerTag: consumerTag,
		logger:      logger,
	}, nil
}

// Start begins consuming and processing deliveries. It spawns PoolSize
// consuming slots and blocks until the provided context is canceled.
func (w *Worker) Start(ctx context.Context) {
	var wg sync.WaitGroup

	for i := 0; i < w.poolSize; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			w.consumeLoop(ctx, slot)
		}(i)
	}

	wg.Wait()
}

// consumeLoop keeps one consuming channel alive, reconnecting with
// backoff whenever the channel or connection drops.
func (w *Worker) consumeLoop(ctx context.Context, slot int) {
	tag := fmt.Sprintf("%s-%d", w.consumerTag, slot)

	for {
		if ctx.Err() != nil {
			return
		}

		ch, err := w.client.ConsumerChannel(w.prefetch)
		if err != nil {
			w.logger.Error("failed to open consumer channel", zap.String("consumer", tag), zap.Error(err))
			if !w.sleep(ctx) {
				return
			}
			continue
		}

		deliveries, err := ch.Consume(
			w.queueName,
			tag,
			false, // autoAck: acknowledgement happens after the handler succeeds
			false, // exclusive
			false, // noLocal
			false, // noWait
			nil,
		)
		if err != nil {
			w.logger.Error("consume setup failed", zap.String("consumer", tag), zap.Error(err))
			_ = ch.Close()
			if !w.sleep(ctx) {
				return
			}
			continue
		}

		closed := ch.NotifyClose(make(chan *amqp.Error, 1))
		w.logger.Info("consuming started", zap.String("queue", w.queueName), zap.String("consumer", tag))

		if !w.drain(ctx, ch, tag, deliveries, closed) {
			return
		}

		if !w.sleep(ctx) {
			return
		}
	}
}

// drain processes deliveries until the channel closes or the context is
// canceled. It reports whether the loop should reconnect.
func (w *Worker) drain(ctx context.Context, ch *amqp.Channel, tag string, deliveries <-chan amqp.Delivery, closed <-chan *amqp.Error) bool {
	for {
		select {
		case <-ctx.Done():
			if err := ch.Cancel(tag, false); err != nil {
				w.logger.Error("consumer cancel failed", zap.String("consumer", tag), zap.Error(err))
			}
			_ = ch.Close()
			return false
		case amqpErr := <-closed:
			if amqpErr != nil {
				w.logger.Error("consumer channel closed", zap.String("consumer", tag), zap.Error(amqpErr))
			}
			return true
		case d, ok := <-deliveries:
			if !ok {
				return true
			}
			w.handleDelivery(&d)
		}
	}
}

// handleDelivery runs the handler and settles the delivery: ack on
// success, reject without requeue for unprocessable messages, requeue
// otherwise.
func (w *Worker) handleDelivery(d *amqp.Delivery) {
	err := w.handler.HandleMessage(d)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			w.logger.Error("failed to ack delivery", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(ackErr))
		}
		return
	}

	if errors.Is(err, ErrDrop) {
		w.logger.Warn("dropping unprocessable delivery",
			zap.Uint64("delivery_tag", d.DeliveryTag),
			zap.Error(err))
		if nackErr := d.Nack(false, false); nackErr != nil {
			w.logger.Error("failed to reject delivery", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(nackErr))
		}
		return
	}

	w.logger.Error("delivery processing failed, requeueing",
		zap.Uint64("delivery_tag", d.DeliveryTag),
		zap.Bool("redelivered", d.Redelivered),
		zap.Error(err))
	if nackErr := d.Nack(false, true); nackErr != nil {
		w.logger.Error("failed to nack delivery", zap.Uint64("delivery_tag", d.DeliveryTag), zap.Error(nackErr))
	}
}

// sleep waits one reconnect backoff, reporting false on cancellation.
func (w *Worker) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(w.client.Config().ReconnectBackoff):
		return true
	}
}

package rabbit

import (
	"errors"
	"fmt"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type ackRecorder struct {
	acks    int
	nacks   int
	requeue bool
}

func (r *ackRecorder) Ack(tag uint64, multiple bool) error {
	r.acks++
	return nil
}

func (r *ackRecorder) Nack(tag uint64, multiple bool, requeue bool) error {
	r.nacks++
	r.requeue = requeue
	return nil
}

func (r *ackRecorder) Reject(tag uint64, requeue bool) error {
	r.nacks++
	r.requeue = requeue
	return nil
}

func testClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(NewConfig().
		WithExchange("orders_exchange").
		WithQueue("orders_queue").
		WithRoutingKey("orders_key"))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestHandleDeliverySettlement(t *testing.T) {
	tests := []struct {
		name        string
		handlerErr  error
		wantAcks    int
		wantNacks   int
		wantRequeue bool
	}{
		{"success acks", nil, 1, 0, false},
		{"drop rejects without requeue", fmt.Errorf("%w: bad body", ErrDrop), 0, 1, false},
		{"failure requeues", errors.New("transient failure"), 0, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			worker, err := NewWorker(testClient(t), "orders_queue", HandlerFunc(func(d *amqp.Delivery) error {
				return tt.handlerErr
			}), nil, zap.NewNop())
			if err != nil {
				t.Fatalf("NewWorker failed: %v", err)
			}

			recorder := &ackRecorder{}
			worker.handleDelivery(&amqp.Delivery{Acknowledger: recorder, DeliveryTag: 7})

			if recorder.acks != tt.wantAcks {
				t.Errorf("acks = %d, want %d", recorder.acks, tt.wantAcks)
			}
			if recorder.nacks != tt.wantNacks {
				t.Errorf("nacks = %d, want %d", recorder.nacks, tt.wantNacks)
			}
			if recorder.nacks > 0 && recorder.requeue != tt.wantRequeue {
				t.Errorf("requeue = %v, want %v", recorder.requeue, tt.wantRequeue)
			}
		})
	}
}

func TestNewWorkerValidation(t *testing.T) {
	handler := HandlerFunc(func(d *amqp.Delivery) error { return nil })

	t.Run("missing client", func(t *testing.T) {
		if _, err := NewWorker(nil, "orders_queue", handler, nil, nil); err == nil {
			t.Error("expected an error for a nil client")
		}
	})

	t.Run("missing handler", func(t *testing.T) {
		if _, err := NewWorker(testClient(t), "orders_queue", nil, nil, nil); err == nil {
			t.Error("expected an error for a nil handler")
		}
	})

	t.Run("missing queue", func(t *testing.T) {
		if _, err := NewWorker(testClient(t), "", handler, nil, nil); err == nil {
			t.Error("expected an error for an empty queue name")
		}
	})

	t.Run("negative prefetch", func(t *testing.T) {
		config := &WorkerConfig{Prefetch: -1}
		if _, err := NewWorker(testClient(t), "orders_queue", handler, config, nil); err == nil {
			t.Error("expected an error for a negative prefetch")
		}
	})

	t.Run("defaults", func(t *testing.T) {
		worker, err := NewWorker(testClient(t), "orders_queue", handler, nil, nil)
		if err != nil {
			t.Fatalf("NewWorker failed: %v", err)
		}
		if worker.prefetch != 1 || worker.poolSize != 1 {
			t.Errorf("prefetch = %d, poolSize = %d, want 1 and 1", worker.prefetch, worker.poolSize)
		}
		if worker.consumerTag != "orders_queue" {
			t.Errorf("consumerTag = %q, want the queue name", worker.consumerTag)
		}
	})
}

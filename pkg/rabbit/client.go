package rabbit

import (
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// HealthStatus represents the health status of the broker connection
type HealthStatus string

const (
	// StatusUp indicates the connection is healthy
	StatusUp HealthStatus = "UP"
	// StatusDown indicates the connection is not healthy
	StatusDown HealthStatus = "DOWN"
)

// Client owns the process-wide AMQP connection and its topology. The
// exchange, queue and binding are declared durable on every (re)connect
// so producer and consumer agree on names without a discovery step.
// Callers never see a half-open connection: channel accessors redial as
// needed and report an error when the broker stays unreachable.
type Client struct {
	config *Config

	mu          sync.Mutex
	conn        *amqp.Connection
	publishChan *amqp.Channel
}

// NewClient creates a broker client from the given configuration. The
// connection is not established until Connect is called.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid broker configuration: %w", err)
	}
	return &Client{config: config}, nil
}

// Config returns the broker configuration
func (c *Client) Config() *Config {
	return c.config
}

// Connect dials the broker and declares the topology. A failure is
// reported to the caller; publish and consume paths retry on their own
// afterwards.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureConnLocked()
}

// Close closes the channel and connection
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	if c.publishChan != nil && !c.publishChan.IsClosed() {
		if err := c.publishChan.Close(); err != nil {
			firstErr = err
		}
	}
	c.publishChan = nil

	if c.conn != nil && !c.conn.IsClosed() {
		if err := c.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	c.conn = nil
	return firstErr
}

// Ping verifies the connection is usable, redialing when necessary
func (c *Client) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureConnLocked()
}

// Health returns the current health of the broker connection
func (c *Client) Health() (HealthStatus, map[string]string) {
	details := map[string]string{
		"exchange": c.config.Exchange,
		"queue":    c.config.Queue,
	}

	start := time.Now()
	if err := c.Ping(); err != nil {
		details["error"] = err.Error()
		return StatusDown, details
	}
	details["latency"] = time.Since(start).String()
	return StatusUp, details
}

// PublishChannel returns the shared confirm-mode channel used by the
// publisher, reconnecting if the previous one was closed.
func (c *Client) PublishChannel() (*amqp.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnLocked(); err != nil {
		return nil, err
	}
	return c.publishChan, nil
}

// ConsumerChannel opens a dedicated channel with the given prefetch
// limit applied. Each worker slot owns one channel so an unacknowledged
// message in one slot never stalls another.
func (c *Client) ConsumerChannel(prefetch int) (*amqp.Channel, error) {
	c.mu.Lock()
	if err := c.ensureConnLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	conn := c.conn
	c.mu.Unlock()

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("channel open failed: %w", err)
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("qos setup failed: %w", err)
	}
	return ch, nil
}

// ensureConnLocked dials and declares topology when the connection or
// the publish channel went away. Caller must hold c.mu.
func (c *Client) ensureConnLocked() error {
	if c.conn != nil && !c.conn.IsClosed() && c.publishChan != nil && !c.publishChan.IsClosed() {
		return nil
	}

	if c.publishChan != nil && !c.publishChan.IsClosed() {
		_ = c.publishChan.Close()
	}
	if c.conn != nil && !c.conn.IsClosed() {
		_ = c.conn.Close()
	}
	c.conn = nil
	c.publishChan = nil

	conn, err := amqp.Dial(c.config.URL)
	if err != nil {
		return fmt.Errorf("broker connect failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("channel open failed: %w", err)
	}

	if err := declareTopology(ch, c.config); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	// Confirm mode makes publish failures detectable instead of silent.
	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("confirm mode setup failed: %w", err)
	}

	c.conn = conn
	c.publishChan = ch
	return nil
}

// declareTopology declares the durable exchange, queue and binding
func declareTopology(ch *amqp.Channel, config *Config) error {
	if err := ch.ExchangeDeclare(
		config.Exchange,
		config.ExchangeType,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare failed: %w", err)
	}

	if _, err := ch.QueueDeclare(
		config.Queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("queue declare failed: %w", err)
	}

	if err := ch.QueueBind(
		config.Queue,
		config.RoutingKey,
		config.Exchange,
		false, // noWait
		nil,
	); err != nil {
		return fmt.Errorf("queue bind failed: %w", err)
	}

	return nil
}

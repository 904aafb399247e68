package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/moodsphere/pkg/observability"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultConsumerQueueName is the durable queue the worker consumes.
const DefaultConsumerQueueName = "moodsphere.worker"

var (
	// ErrConsumerRunning is returned when Start is called twice.
	ErrConsumerRunning = errors.New("consumer already running")
	// ErrConsumerClosed is returned when Start is called after Close.
	ErrConsumerClosed = errors.New("consumer closed")
)

// disposition is what happens to a delivery once it has been handled.
type disposition int

const (
	dispositionAck disposition = iota
	dispositionRequeue
	dispositionDrop
)

func (d disposition) String() string {
	switch d {
	case dispositionAck:
		return "ack"
	case dispositionRequeue:
		return "requeue"
	default:
		return "drop"
	}
}

// acknowledger is the settlement side of amqp.Delivery.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// RabbitMQConsumerConfig configures the worker's queue consumer. Prefetch
// caps unacknowledged deliveries; 0 means one at a time.
type RabbitMQConsumerConfig struct {
	URL       string
	QueueName string
	Exchange  string
	Prefetch  int
	Metrics   observability.Metrics
	Logger    *slog.Logger
}

// RabbitMQConsumer feeds journal events from a durable queue into a
// ConsumerRegistry. A failed event is requeued once; when its redelivery
// fails too it is dropped so a poison message cannot loop.
type RabbitMQConsumer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	cfg      RabbitMQConsumerConfig
	registry *ConsumerRegistry
	metrics  observability.Metrics
	logger   *slog.Logger

	mu        sync.Mutex
	running   bool
	stop      chan struct{}
	closeOnce sync.Once
}

// NewRabbitMQConsumer dials the broker and declares the exchange and queue.
// Routing keys are bound when Start runs.
func NewRabbitMQConsumer(cfg RabbitMQConsumerConfig, registry *ConsumerRegistry) (*RabbitMQConsumer, error) {
	c := newRabbitMQConsumer(cfg, registry)

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := declareWorkerTopology(ch, c.cfg.Exchange, c.cfg.QueueName); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	c.conn = conn
	c.channel = ch
	c.logger.Info("worker queue ready", "queue", c.cfg.QueueName, "exchange", c.cfg.Exchange)
	return c, nil
}

func newRabbitMQConsumer(cfg RabbitMQConsumerConfig, registry *ConsumerRegistry) *RabbitMQConsumer {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NoopMetrics{}
	}
	if cfg.QueueName == "" {
		cfg.QueueName = DefaultConsumerQueueName
	}
	if cfg.Exchange == "" {
		cfg.Exchange = ExchangeName
	}
	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 1
	}
	if registry == nil {
		registry = NewConsumerRegistry(cfg.Logger)
	}
	return &RabbitMQConsumer{
		cfg:      cfg,
		registry: registry,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		stop:     make(chan struct{}),
	}
}

// declareWorkerTopology makes sure the durable topic exchange and the
// worker queue exist. Both are idempotent on the broker.
func declareWorkerTopology(ch *amqp.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return nil
}

// RegisterConsumer adds a consumer to the registry.
func (c *RabbitMQConsumer) RegisterConsumer(consumer EventConsumer) {
	c.registry.Register(consumer)
}

// Start binds every registered routing key and processes deliveries until
// ctx is done or Close is called.
func (c *RabbitMQConsumer) Start(ctx context.Context) error {
	select {
	case <-c.stop:
		return ErrConsumerClosed
	default:
	}

	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrConsumerRunning
	}
	c.running = true
	c.mu.Unlock()

	routingKeys := c.registry.EventTypes()
	for _, key := range routingKeys {
		if err := c.channel.QueueBind(c.cfg.QueueName, key, c.cfg.Exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	if err := c.channel.Qos(c.cfg.Prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	deliveries, err := c.channel.Consume(c.cfg.QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", c.cfg.QueueName, err)
	}
	c.logger.Info("worker consuming", "queue", c.cfg.QueueName, "routing_keys", routingKeys)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stop:
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed by broker")
			}
			outcome := c.handle(ctx, d.Body, d.RoutingKey, d.CorrelationId, d.Redelivered)
			c.settle(d, d.RoutingKey, outcome)
		}
	}
}

// handle decodes one delivery and dispatches it. Undecodable bodies are
// dropped; dispatch failures are requeued unless already redelivered.
func (c *RabbitMQConsumer) handle(ctx context.Context, body []byte, routingKey, correlationID string, redelivered bool) disposition {
	var event ConsumedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Warn("dropping undecodable event", "routing_key", routingKey, "error", err)
		return dispositionDrop
	}
	if event.RoutingKey == "" {
		event.RoutingKey = routingKey
	}
	if event.Metadata.CorrelationID == "" {
		event.Metadata.CorrelationID = correlationID
	}
	if event.Metadata.CorrelationID != "" {
		ctx = observability.WithCorrelationID(ctx, event.Metadata.CorrelationID)
	}

	started := time.Now()
	err := c.registry.Dispatch(ctx, &event)
	c.metrics.Timing(observability.MetricEventsDispatch, time.Since(started),
		observability.T("routing_key", event.RoutingKey))
	if err == nil {
		return dispositionAck
	}

	c.logger.ErrorContext(ctx, "journal event handling failed",
		"routing_key", event.RoutingKey,
		"event_id", event.EventID,
		"user_id", event.Metadata.UserID,
		"redelivered", redelivered,
		"error", err,
	)
	if redelivered {
		return dispositionDrop
	}
	return dispositionRequeue
}

func (c *RabbitMQConsumer) settle(d acknowledger, routingKey string, outcome disposition) {
	var err error
	switch outcome {
	case dispositionAck:
		err = d.Ack(false)
	case dispositionRequeue:
		c.metrics.Counter(observability.MetricEventsRequeued, 1, observability.T("routing_key", routingKey))
		err = d.Nack(false, true)
	default:
		c.metrics.Counter(observability.MetricEventsDropped, 1, observability.T("routing_key", routingKey))
		err = d.Nack(false, false)
	}
	if err != nil {
		c.logger.Warn("failed to settle delivery", "outcome", outcome.String(), "routing_key", routingKey, "error", err)
	}
}

// Close stops Start and releases the channel and connection. It is safe to
// call more than once.
func (c *RabbitMQConsumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.stop)

		c.mu.Lock()
		c.running = false
		c.mu.Unlock()

		if c.channel != nil {
			if cerr := c.channel.Close(); cerr != nil {
				c.logger.Warn("failed to close worker channel", "error", cerr)
			}
		}
		if c.conn != nil {
			err = c.conn.Close()
		}
	})
	return err
}

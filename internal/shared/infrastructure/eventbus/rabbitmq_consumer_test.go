package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/felixgeelhaar/moodsphere/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	keys   []string
	err    error
	events []*ConsumedEvent
	corrID string
}

func (s *stubHandler) EventTypes() []string { return s.keys }

func (s *stubHandler) Handle(ctx context.Context, event *ConsumedEvent) error {
	s.events = append(s.events, event)
	s.corrID = observability.CorrelationIDFromContext(ctx)
	return s.err
}

type fakeDelivery struct {
	acked     bool
	requeued  bool
	discarded bool
}

func (d *fakeDelivery) Ack(bool) error { d.acked = true; return nil }

func (d *fakeDelivery) Nack(_, requeue bool) error {
	if requeue {
		d.requeued = true
	} else {
		d.discarded = true
	}
	return nil
}

func newTestConsumer(t *testing.T, handler EventConsumer) (*RabbitMQConsumer, *observability.InMemoryMetrics) {
	t.Helper()
	metrics := observability.NewInMemoryMetrics()
	c := newRabbitMQConsumer(RabbitMQConsumerConfig{
		Metrics: metrics,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil)
	if handler != nil {
		c.RegisterConsumer(handler)
	}
	return c, metrics
}

func entryCreatedBody(t *testing.T, routingKey string) []byte {
	t.Helper()
	body, err := json.Marshal(ConsumedEvent{
		EventID:    uuid.New(),
		RoutingKey: routingKey,
		Payload:    json.RawMessage(`{"entry_id":"e-1","user_id":"alice"}`),
		Metadata:   EventMetadata{UserID: "alice"},
	})
	require.NoError(t, err)
	return body
}

func TestNewRabbitMQConsumerDefaults(t *testing.T) {
	c, _ := newTestConsumer(t, nil)

	assert.Equal(t, DefaultConsumerQueueName, c.cfg.QueueName)
	assert.Equal(t, ExchangeName, c.cfg.Exchange)
	assert.Equal(t, 1, c.cfg.Prefetch)
	assert.NotNil(t, c.registry)
}

func TestRabbitMQConsumer_RegisterConsumerFeedsBindings(t *testing.T) {
	c, _ := newTestConsumer(t, &stubHandler{keys: []string{"journal.entry.deleted", "journal.entry.created"}})

	assert.Equal(t, []string{"journal.entry.created", "journal.entry.deleted"}, c.registry.EventTypes())
}

func TestRabbitMQConsumer_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatched event is acked", func(t *testing.T) {
		handler := &stubHandler{keys: []string{"journal.entry.created"}}
		c, _ := newTestConsumer(t, handler)

		outcome := c.handle(ctx, entryCreatedBody(t, "journal.entry.created"), "journal.entry.created", "corr-1", false)

		assert.Equal(t, dispositionAck, outcome)
		require.Len(t, handler.events, 1)
		assert.Equal(t, "alice", handler.events[0].Metadata.UserID)
		assert.Equal(t, "corr-1", handler.corrID)
	})

	t.Run("routing key falls back to the delivery", func(t *testing.T) {
		handler := &stubHandler{keys: []string{"journal.entry.deleted"}}
		c, _ := newTestConsumer(t, handler)

		outcome := c.handle(ctx, entryCreatedBody(t, ""), "journal.entry.deleted", "", false)

		assert.Equal(t, dispositionAck, outcome)
		require.Len(t, handler.events, 1)
		assert.Equal(t, "journal.entry.deleted", handler.events[0].RoutingKey)
	})

	t.Run("undecodable body is dropped", func(t *testing.T) {
		handler := &stubHandler{keys: []string{"journal.entry.created"}}
		c, _ := newTestConsumer(t, handler)

		outcome := c.handle(ctx, []byte("{not json"), "journal.entry.created", "", false)

		assert.Equal(t, dispositionDrop, outcome)
		assert.Empty(t, handler.events)
	})

	t.Run("first failure is requeued", func(t *testing.T) {
		c, _ := newTestConsumer(t, &stubHandler{keys: []string{"journal.entry.created"}, err: errors.New("cache down")})

		outcome := c.handle(ctx, entryCreatedBody(t, "journal.entry.created"), "journal.entry.created", "", false)
		assert.Equal(t, dispositionRequeue, outcome)
	})

	t.Run("failed redelivery is dropped", func(t *testing.T) {
		c, _ := newTestConsumer(t, &stubHandler{keys: []string{"journal.entry.created"}, err: errors.New("cache down")})

		outcome := c.handle(ctx, entryCreatedBody(t, "journal.entry.created"), "journal.entry.created", "", true)
		assert.Equal(t, dispositionDrop, outcome)
	})

	t.Run("unrouted event is acked", func(t *testing.T) {
		c, _ := newTestConsumer(t, nil)

		outcome := c.handle(ctx, entryCreatedBody(t, "journal.entry.archived"), "journal.entry.archived", "", false)
		assert.Equal(t, dispositionAck, outcome)
	})
}

func TestRabbitMQConsumer_Settle(t *testing.T) {
	c, metrics := newTestConsumer(t, nil)
	key := observability.T("routing_key", "journal.entry.created")

	acked := &fakeDelivery{}
	c.settle(acked, "journal.entry.created", dispositionAck)
	assert.True(t, acked.acked)

	requeued := &fakeDelivery{}
	c.settle(requeued, "journal.entry.created", dispositionRequeue)
	assert.True(t, requeued.requeued)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricEventsRequeued, key))

	dropped := &fakeDelivery{}
	c.settle(dropped, "journal.entry.created", dispositionDrop)
	assert.True(t, dropped.discarded)
	assert.False(t, dropped.requeued)
	assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricEventsDropped, key))
}

func TestRabbitMQConsumer_CloseIsIdempotent(t *testing.T) {
	c, _ := newTestConsumer(t, nil)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	err := c.Start(context.Background())
	assert.ErrorIs(t, err, ErrConsumerClosed)
}

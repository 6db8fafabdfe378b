package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/retailpos/backend/internal/domain/shared"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "test", uuid.New()),
	}
}

func TestLogPublisherPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("dispatches to subscribed handlers in order", func(t *testing.T) {
		publisher := NewLogPublisher(nil)

		var seen []string
		publisher.Subscribe("sale.completed", func(_ context.Context, e shared.DomainEvent) error {
			seen = append(seen, "first:"+e.EventType())
			return nil
		})
		publisher.Subscribe("sale.completed", func(_ context.Context, e shared.DomainEvent) error {
			seen = append(seen, "second:"+e.EventType())
			return nil
		})

		err := publisher.Publish(ctx, newTestEvent("sale.completed"))
		require.NoError(t, err)
		assert.Equal(t, []string{"first:sale.completed", "second:sale.completed"}, seen)
	})

	t.Run("unsubscribed event types only get logged", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		publisher := NewLogPublisher(zap.New(core))

		err := publisher.Publish(ctx, newTestEvent("product.created"))
		require.NoError(t, err)

		entries := logs.FilterMessage("domain event").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "product.created", entries[0].ContextMap()["event_type"])
	})

	t.Run("failing handler does not stop the others", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		publisher := NewLogPublisher(zap.New(core))

		handled := 0
		publisher.Subscribe("sale.completed", func(context.Context, shared.DomainEvent) error {
			return errors.New("boom")
		})
		publisher.Subscribe("sale.completed", func(context.Context, shared.DomainEvent) error {
			handled++
			return nil
		})

		err := publisher.Publish(ctx, newTestEvent("sale.completed"))
		require.NoError(t, err)
		assert.Equal(t, 1, handled)
		assert.Len(t, logs.FilterMessage("event handler failed").All(), 1)
	})
}

func TestPublishEventsDrainsAggregate(t *testing.T) {
	ctx := context.Background()
	publisher := NewLogPublisher(nil)

	var received []shared.DomainEvent
	publisher.Subscribe("test.changed", func(_ context.Context, e shared.DomainEvent) error {
		received = append(received, e)
		return nil
	})

	aggregate := &struct{ shared.BaseAggregateRoot }{shared.NewBaseAggregateRoot()}
	aggregate.AddDomainEvent(newTestEvent("test.changed"))

	require.NoError(t, shared.PublishEvents(ctx, publisher, aggregate))
	assert.Len(t, received, 1)
	assert.Empty(t, aggregate.GetDomainEvents())

	// a nil publisher still clears pending events
	aggregate.AddDomainEvent(newTestEvent("test.changed"))
	require.NoError(t, shared.PublishEvents(ctx, nil, aggregate))
	assert.Empty(t, aggregate.GetDomainEvents())
}

package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/shared"
)

// Handler processes published domain events
type Handler func(ctx context.Context, event shared.DomainEvent) error

// LogPublisher dispatches domain events to in-process handlers and logs
// every event. Handlers run synchronously in registration order; a failing
// handler is logged and does not stop the others.
type LogPublisher struct {
	logger *zap.Logger

	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewLogPublisher creates an event publisher backed by the given logger
func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for an event type
func (p *LogPublisher) Subscribe(eventType string, handler Handler) {
	p.mu.Lock()
	p.handlers[eventType] = append(p.handlers[eventType], handler)
	p.mu.Unlock()
}

// Publish logs each event and dispatches it to its subscribed handlers
func (p *LogPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		p.logger.Info("domain event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
			zap.String("aggregate_type", event.AggregateType()),
			zap.String("aggregate_id", event.AggregateID().String()),
		)

		p.mu.RLock()
		handlers := p.handlers[event.EventType()]
		p.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(ctx, event); err != nil {
				p.logger.Error("event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

var _ shared.EventPublisher = (*LogPublisher)(nil)

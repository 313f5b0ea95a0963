package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter dispatches events synchronously to the handlers
// registered for their type, so a handler error reaches the publisher.
type InMemoryEventEmitter struct {
	handlers map[string][]EventHandler
	mu       sync.RWMutex
	logger   *slog.Logger
}

// NewInMemoryEventEmitter creates a new instance of InMemoryEventEmitter.
func NewInMemoryEventEmitter(logger *slog.Logger) *InMemoryEventEmitter {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventEmitter{
		handlers: make(map[string][]EventHandler),
		logger:   logger.With("component", "in_memory_event_emitter"),
	}
}

// RegisterHandler subscribes handler to events of eventType.
func (e *InMemoryEventEmitter) RegisterHandler(eventType string, handler EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers[eventType] = append(e.handlers[eventType], handler)
	e.logger.Debug("registered event handler",
		"event_type", eventType,
		"handler_count", len(e.handlers[eventType]))
}

// EmitEvent publishes the given event to every handler of its type.
// All handlers run even if one fails; the first error is returned.
// Emitting a type without handlers returns ErrNoHandler, since a request
// nobody will execute must not be acknowledged.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *TaskRequestEvent) error {
	e.mu.RLock()
	handlers := append([]EventHandler(nil), e.handlers[event.Type]...)
	e.mu.RUnlock()

	if len(handlers) == 0 {
		e.logger.WarnContext(ctx, "no handlers registered for event",
			"event_id", event.ID,
			"event_type", event.Type)
		return fmt.Errorf("%w: %s", ErrNoHandler, event.Type)
	}

	e.logger.DebugContext(ctx, "emitting event",
		"event_id", event.ID,
		"event_type", event.Type,
		"handler_count", len(handlers))

	var firstErr error
	for i, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.ErrorContext(ctx, "handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

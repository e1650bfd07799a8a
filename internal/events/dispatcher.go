package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// EventHandler reacts to one published event.
type EventHandler func(context.Context, Event) error

// Dispatcher fans domain events out to subscribers.
type Dispatcher interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler)
}

type subscriber struct {
	id      int
	handler EventHandler
}

// inMemoryDispatcher delivers events synchronously on the publishing
// goroutine, in subscription order.
type inMemoryDispatcher struct {
	mu     sync.RWMutex
	nextID int
	subs   map[EventType][]subscriber
	logger *zap.Logger
}

// NewInMemoryDispatcher returns a process-local Dispatcher.
func NewInMemoryDispatcher(logger *zap.Logger) Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &inMemoryDispatcher{
		subs:   make(map[EventType][]subscriber),
		logger: logger.Named("events"),
	}
}

// Publish runs every subscriber of event.Type. All subscribers run even if
// some fail or panic; their errors are logged and returned joined.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	subs := append([]subscriber(nil), d.subs[event.Type]...)
	d.mu.RUnlock()

	var errs []error
	for _, sub := range subs {
		if err := deliver(ctx, sub.handler, event); err != nil {
			d.logger.Warn("event handler failed",
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID),
				zap.Int("subscriber", sub.id),
				zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers handler for eventType.
func (d *inMemoryDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.subs[eventType] = append(d.subs[eventType], subscriber{id: d.nextID, handler: handler})
}

func deliver(ctx context.Context, handler EventHandler, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("event handler panic: %v", r)
		}
	}()
	return handler(ctx, event)
}

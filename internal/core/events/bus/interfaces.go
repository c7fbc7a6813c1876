package bus

import (
	"errors"
	"time"
)

// Bus is an in-process pub/sub bus.
//
// Handlers subscribe by event type and run synchronously in the publisher's
// goroutine, in subscription order. Handler errors are joined and returned
// from Publish. All methods are safe for concurrent use.
type Bus interface {
	Publish(event Event) error
	// PublishBatch publishes each event in order and joins the handler errors.
	PublishBatch(events ...Event) error

	Subscribe(eventType string, handler Handler) (*Subscription, error)
	Unsubscribe(sub *Subscription)
	Subscribers(eventType string) int

	AddObserver(obs Observer)
	Stats() Stats
}

// Event is the message carried by the bus. Treat it as read-only.
type Event struct {
	Type   string
	Source string
	Time   time.Time
	Data   any
}

// Handler is invoked once per delivered event.
type Handler func(event Event) error

// Observer is told about every publish. Observers should return quickly.
type Observer interface {
	OnPublish(event Event)
	OnDelivered(event Event, handlers int, err error, took time.Duration)
}

// Stats counts bus traffic since creation.
type Stats struct {
	Published   uint64
	Delivered   uint64
	Errors      uint64
	Subscribers int
}

var (
	ErrEmptyEventType = errors.New("event type is empty")
	ErrNilHandler     = errors.New("handler is nil")
)
